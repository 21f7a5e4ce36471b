package domain

import (
	"errors"
)

// ErrorKind はエラーの分類です。
type ErrorKind string

const (
	KindLoad          ErrorKind = "load"          // ファイルの読み込み・デコード失敗（クライアント）
	KindValidation    ErrorKind = "validation"    // 必須フィールド欠落など（サーバー, 4xx）
	KindConfiguration ErrorKind = "configuration" // API キー未設定など（サーバー, 500）
	KindSafety        ErrorKind = "safety"        // 安全フィルターによるブロック
	KindUpstream      ErrorKind = "upstream"      // 画像が返らなかった、その他の異常終了
	KindTransport     ErrorKind = "transport"     // 通信失敗（クライアント）
	KindMalformed     ErrorKind = "malformed"     // JSON として読めない応答（クライアント）
)

// Error はユーザー向けメッセージと内部原因を分けて保持します。
// Error() はユーザー向けメッセージのみを返し、原因は Unwrap で辿ります。
type Error struct {
	Kind    ErrorKind
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError は原因を持たない Error を作ります。
func NewError(kind ErrorKind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// WrapError は原因を保持した Error を作ります。
func WrapError(kind ErrorKind, op, message string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Cause: cause}
}

// KindOf はエラーチェーン上で最初に見つかった Error の分類を返します。
// 見つからない場合は空文字を返します。
func KindOf(err error) ErrorKind {
	var target *Error
	if errors.As(err, &target) {
		return target.Kind
	}
	return ""
}

// IsKind はエラーチェーンが指定の分類に該当するかを判定します。
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
