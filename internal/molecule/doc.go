// Package molecule は化学物質の同一性判定を担う
//
// # 責務
// - 記述子（分子式・構造名）の比較
// - 判定結果の人間向けテキスト生成
// - コンソール向けレポートの生成
//
// # 仕様
// - 分子式は前後の空白を除いた完全一致で比較する
// - 構造名は前後の空白を除き、大文字小文字を区別せずに比較する
// - それ以外の正規化は行わない（原子の並び替えなどはしない）
// - すべての関数は副作用を持たず、同じ入力に対して同じ出力を返す
package molecule
