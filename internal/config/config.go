package config

import (
	"github.com/spf13/viper"
)

// Config は、パイプライン全体の固定設定値を保持します。
// 値はすべて組み込みのデフォルトで、環境変数や設定ファイルからは読み込みません。
type Config struct {
	Channel ChannelConfig
	Output  OutputConfig
	OCR     OCRConfig
}

type ChannelConfig struct {
	Endpoint     string
	UserAgent    string
	MaxBodyBytes int64
}

type OutputConfig struct {
	Path string
}

type OCRConfig struct {
	Language      string
	PageSegMode   int
	MinImageBytes int64
	MaxImageBytes int64
}

const (
	DefaultEndpoint   = "https://api.are.na/v2/channels/tracklists-bjgvj5dpt3k/contents"
	DefaultOutputPath = "extracted_tracklists.json"
	DefaultUserAgent  = "Arena Tracklist Extractor 1.0"
)

// Load は、デフォルト値を登録した専用の viper インスタンスから Config を構築します。
func Load() *Config {
	v := viper.New()
	v.SetDefault("channel.endpoint", DefaultEndpoint)
	v.SetDefault("channel.user_agent", DefaultUserAgent)
	v.SetDefault("channel.max_body_bytes", 10*1024*1024) // 10MB
	v.SetDefault("output.path", DefaultOutputPath)
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.page_seg_mode", 6) // 単一の均一なテキストブロック
	v.SetDefault("ocr.min_image_bytes", 100)
	v.SetDefault("ocr.max_image_bytes", 50*1024*1024) // 50MB

	return &Config{
		Channel: ChannelConfig{
			Endpoint:     v.GetString("channel.endpoint"),
			UserAgent:    v.GetString("channel.user_agent"),
			MaxBodyBytes: v.GetInt64("channel.max_body_bytes"),
		},
		Output: OutputConfig{
			Path: v.GetString("output.path"),
		},
		OCR: OCRConfig{
			Language:      v.GetString("ocr.language"),
			PageSegMode:   v.GetInt("ocr.page_seg_mode"),
			MinImageBytes: v.GetInt64("ocr.min_image_bytes"),
			MaxImageBytes: v.GetInt64("ocr.max_image_bytes"),
		},
	}
}
