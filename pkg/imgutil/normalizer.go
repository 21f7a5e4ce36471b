package imgutil

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/shouni/gemini-nail-kit/pkg/domain"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

const (
	DefaultMaxDimension = 512
	DefaultJPEGQuality  = 90
	// DefaultMaxPixels はデコードを許可する画素数の上限です（約 4000 万画素）。
	DefaultMaxPixels = 40_000_000

	// LoadErrorMessage は読み込み失敗時に原因を問わず表示する唯一のメッセージです。
	LoadErrorMessage = "failed to load the file. Try a different photo."
)

// Normalizer はアップロード画像を縮小・再エンコードして送信可能な形に整えます。
type Normalizer struct {
	maxWidth  int
	maxHeight int
	quality   int
	maxPixels int
	reader    remoteio.InputReader
}

// Option は Normalizer の設定を変更します。
type Option func(*Normalizer)

// WithMaxDimensions は縮小先の枠を変更します。
func WithMaxDimensions(width, height int) Option {
	return func(n *Normalizer) {
		n.maxWidth = width
		n.maxHeight = height
	}
}

// WithQuality は JPEG の品質（1〜100）を変更します。
func WithQuality(quality int) Option {
	return func(n *Normalizer) {
		n.quality = quality
	}
}

// WithMaxPixels はデコード前に確認する画素数の上限を変更します。
func WithMaxPixels(pixels int) Option {
	return func(n *Normalizer) {
		n.maxPixels = pixels
	}
}

// WithReader は NormalizeFile がファイルを開くのに使う InputReader を差し替えます。
// GCS や S3 のクライアントを注入した reader を渡すと gs:// や s3:// も読めます。
func WithReader(reader remoteio.InputReader) Option {
	return func(n *Normalizer) {
		n.reader = reader
	}
}

// NewNormalizer は 512x512・品質 90 を既定値とする Normalizer を作ります。
// reader の既定値はローカルファイルのみを扱う UniversalInputReader です。
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{
		maxWidth:  DefaultMaxDimension,
		maxHeight: DefaultMaxDimension,
		quality:   DefaultJPEGQuality,
		maxPixels: DefaultMaxPixels,
		reader:    remoteio.NewUniversalInputReader(nil, nil),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NormalizeFile は InputReader でファイルを開いて正規化します。
func (n *Normalizer) NormalizeFile(ctx context.Context, path string) (*domain.NormalizedImage, error) {
	rc, err := n.reader.Open(ctx, path)
	if err != nil {
		return nil, loadError(fmt.Errorf("ファイルを開けませんでした: %w", err))
	}
	defer rc.Close()

	return n.Normalize(filepath.Base(path), rc)
}

// Normalize は画像を読み込み、枠内に収まるよう縮小して JPEG の data URL に変換します。
// 失敗はすべて domain.KindLoad のエラーとして返します。
func (n *Normalizer) Normalize(name string, r io.Reader) (*domain.NormalizedImage, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, loadError(fmt.Errorf("読み込みに失敗しました: %w", err))
	}

	// ヘッダーだけを読んで、巨大な画像を展開する前に弾く
	cfg, _, err := image.DecodeConfig(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, loadError(fmt.Errorf("ヘッダーのデコードに失敗しました: %w", err))
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > int64(n.maxPixels) {
		return nil, loadError(fmt.Errorf("画素数が上限 (%d) を超えています: %dx%d", n.maxPixels, cfg.Width, cfg.Height))
	}

	img, format, err := DecodeImage(buf.Bytes())
	if err != nil {
		return nil, loadError(fmt.Errorf("デコードに失敗しました: %w", err))
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, loadError(fmt.Errorf("描画先を確保できません: %dx%d", bounds.Dx(), bounds.Dy()))
	}

	width, height := FitWithin(bounds.Dx(), bounds.Dy(), n.maxWidth, n.maxHeight)
	canvas := Render(img, width, height)

	encoded, err := EncodeJPEG(canvas, n.quality)
	if err != nil {
		return nil, loadError(fmt.Errorf("JPEG エンコードに失敗しました: %w", err))
	}

	slog.Debug("画像を正規化しました",
		"name", name,
		"format", format,
		"src", fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy()),
		"dst", fmt.Sprintf("%dx%d", width, height),
		"bytes", len(encoded),
	)

	return domain.NewNormalizedImage(name, domain.NormalizedImageMimeType, encoded), nil
}

func loadError(cause error) error {
	return domain.WrapError(domain.KindLoad, "imgutil.Normalize", LoadErrorMessage, cause)
}
