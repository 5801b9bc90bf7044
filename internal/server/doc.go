// Package server は、HTTPサーバーとリクエストの振り分けを管理します。
//
// このパッケージは、HTTPサーバーの起動、ルーティング、
// ルートページのレンダリング、静的ファイルの配信を担当します。
//
// 責務:
//   - HTTPサーバーの起動と管理
//   - リクエストパスによるページ描画・静的ファイル配信の振り分け
//   - ルートページのレスポンス（ステータス、Content-Type、Content-Length）の書き込み
//   - 作業ディレクトリからの静的ファイル配信
//   - ブラウザの自動起動
//
// 仕様:
//   - ルーティングにはgin-gonic/ginを使用
//   - "/" と "/?" で始まるパスのみページを描画し、それ以外はすべて静的ファイル配信に任せる
//   - リクエスト間で共有する可変状態は持たない
//   - 接続ごとのエラーはその接続だけに影響する
//   - グレースフルシャットダウンに対応
//
// 接続ごとの状態遷移:
//
//	AwaitingRequest → Routed → (Rendering | Delegating) → ResponseSent → Closed
package server
