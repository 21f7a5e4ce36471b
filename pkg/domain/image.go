package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// NormalizedImageMimeType は正規化後の画像が必ず持つ MIME タイプです。
const NormalizedImageMimeType = "image/jpeg"

// NormalizedImage はアップロード1回につき1つ生成される正規化済み画像です。
// 生成後は変更しません。Base64 は常に DataURL の最初のカンマ以降と一致します。
type NormalizedImage struct {
	Name    string `json:"name"`    // 元のファイル名（表示用）
	Type    string `json:"type"`    // 常に NormalizedImageMimeType
	Size    int    `json:"size"`    // Base64 テキストの長さ（元ファイルのサイズではない）
	DataURL string `json:"dataUrl"` // そのまま表示に使える自己記述型の文字列
	Base64  string `json:"base64"`  // サーバー送信用のペイロード部分のみ
}

// NewNormalizedImage は1回のエンコード結果から NormalizedImage を組み立てます。
// Base64 と Size は組み立てた DataURL から切り出すため、両者は必ず一致します。
func NewNormalizedImage(name, mimeType string, encoded []byte) *NormalizedImage {
	dataURL := BuildDataURL(mimeType, base64.StdEncoding.EncodeToString(encoded))
	payload := dataURL[strings.Index(dataURL, ",")+1:]
	return &NormalizedImage{
		Name:    name,
		Type:    mimeType,
		Size:    len(payload),
		DataURL: dataURL,
		Base64:  payload,
	}
}

// WireImage はサーバーが受け取る画像フィールドです。type と base64 以外は無視されます。
type WireImage struct {
	Type   string `json:"type"`
	Base64 string `json:"base64"`
}

// GenerationRequest は POST /api/generate のリクエストボディです。
type GenerationRequest struct {
	HandImage       *WireImage `json:"handImage"`
	NailDesignImage *WireImage `json:"nailDesignImage"`
}

// MissingImageMessage はどちらかの画像が欠けているときのメッセージです。
const MissingImageMessage = "missing image data"

// Validate は両方の画像に type と base64 が揃っているかを確認します。
func (r GenerationRequest) Validate() error {
	for _, img := range []*WireImage{r.HandImage, r.NailDesignImage} {
		if img == nil || img.Type == "" || img.Base64 == "" {
			return NewError(KindValidation, "GenerationRequest.Validate", MissingImageMessage)
		}
	}
	return nil
}

// ClientGenerationRequest はクライアントが送信するボディです。
// NormalizedImage をそのまま載せますが、サーバー側は GenerationRequest として読みます。
type ClientGenerationRequest struct {
	HandImage       *NormalizedImage `json:"handImage"`
	NailDesignImage *NormalizedImage `json:"nailDesignImage"`
}

// GenerationResult はレスポンスのエンベロープです。
// ImageURL と Error はどちらか一方だけが入ります。
type GenerationResult struct {
	ImageURL string `json:"imageUrl,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Success は画像 URL のみを持つ結果を返します。
func Success(imageURL string) GenerationResult {
	return GenerationResult{ImageURL: imageURL}
}

// Failure はエラーメッセージのみを持つ結果を返します。
func Failure(message string) GenerationResult {
	return GenerationResult{Error: message}
}

// ImageResponse は生成された画像データとそのメタデータです。
type ImageResponse struct {
	Data     []byte
	MimeType string
}

// DataURL は ImageResponse を data:<mime>;base64,<data> 形式に組み立て直します。
func (r *ImageResponse) DataURL() string {
	return BuildDataURL(r.MimeType, base64.StdEncoding.EncodeToString(r.Data))
}

// BuildDataURL は MIME タイプと Base64 ペイロードから data URL を作ります。
func BuildDataURL(mimeType, payload string) string {
	return "data:" + mimeType + ";base64," + payload
}

// ParseDataURL は base64 形式の data URL を MIME タイプとデコード済みバイト列に分解します。
func ParseDataURL(dataURL string) (string, []byte, error) {
	header, payload, found := strings.Cut(dataURL, ",")
	if !found || !strings.HasPrefix(header, "data:") {
		return "", nil, fmt.Errorf("data URL ではありません")
	}
	mimeType, isBase64 := strings.CutSuffix(strings.TrimPrefix(header, "data:"), ";base64")
	if !isBase64 {
		return "", nil, fmt.Errorf("base64 以外のエンコーディングには対応していません: %s", header)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("data URL のデコードに失敗しました: %w", err)
	}
	return mimeType, data, nil
}
