// Package server は、HTTPサーバーの起動とルーティングを管理します。
//
// 2種類のサーバーを提供します。
//
//   - NewGreeting: ルートパスに固定の挨拶文を返す
//   - NewStatic: 公開ディレクトリの静的ファイルを配信し、
//     ルートパスには views ディレクトリの index.html を返す
//
// 仕様:
//   - ルーティングには gin を使用
//   - ファイルはリクエストのたびにディスクから読み込む（キャッシュしない）
//   - 存在しないパスはフレームワーク既定の 404 を返す
//   - SIGINT / SIGTERM またはコンテキストのキャンセルでグレースフルシャットダウン
package server
