package main

import (
	"github.com/shouni/arena-tracklist-ocr/cmd"
)

// main は、cmd.Execute にアプリケーションの実行とエラー時の終了処理を委ねます。
func main() {
	cmd.Execute()
}
