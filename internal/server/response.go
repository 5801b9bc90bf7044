package server

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// Frame はクライアントに書き込むレスポンス
type Frame struct {
	Status int
	Header http.Header
	Body   []byte
}

// ConnectionError はクライアント接続への書き込みに失敗した場合のエラー
// その接続だけが影響を受け、サーバーは動作を続ける
type ConnectionError struct {
	Written int
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("レスポンスの書き込みに失敗 (%d バイト書き込み済み): %v", e.Written, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// OK はステータス200のレスポンスを作成する
// Content-Lengthは常にbodyのバイト長と一致する
func OK(body []byte, contentType string) Frame {
	header := make(http.Header, 2)
	header.Set("Content-Type", contentType)
	header.Set("Content-Length", strconv.Itoa(len(body)))

	return Frame{
		Status: http.StatusOK,
		Header: header,
		Body:   body,
	}
}

// Write はレスポンスをwに書き込む。再試行はしない
func (f Frame) Write(w http.ResponseWriter) error {
	h := w.Header()
	for key, values := range f.Header {
		h[key] = append([]string(nil), values...)
	}
	w.WriteHeader(f.Status)

	n, err := w.Write(f.Body)
	if err != nil {
		return &ConnectionError{Written: n, Err: err}
	}
	if n != len(f.Body) {
		return &ConnectionError{Written: n, Err: io.ErrShortWrite}
	}
	return nil
}
