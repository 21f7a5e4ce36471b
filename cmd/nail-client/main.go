// nail-client は手の写真とネイルデザインの画像をプロキシに送り、合成結果を保存するコマンドです。
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/shouni/gemini-nail-kit/pkg/adapters"
	"github.com/shouni/gemini-nail-kit/pkg/domain"
	"github.com/shouni/gemini-nail-kit/pkg/imgutil"
	"github.com/shouni/gemini-nail-kit/pkg/session"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"
	"github.com/shouni/go-remote-io/pkg/remoteio"
	"github.com/shouni/go-remote-io/pkg/s3factory"
)

type options struct {
	hand   string
	design string
	server string
	out    string
}

func main() {
	var opts options
	flag.StringVar(&opts.hand, "hand", "", "手の写真のパス (JPEG / PNG / WebP / GIF)。gs:// と s3:// も指定できます")
	flag.StringVar(&opts.design, "design", "", "ネイルデザイン画像のパス")
	flag.StringVar(&opts.server, "server", "http://localhost:8080", "プロキシのベース URL")
	flag.StringVar(&opts.out, "out", "nail-result", "出力ファイル名（拡張子は MIME タイプから付与）")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	path, err := run(ctx, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(path)
}

func run(ctx context.Context, opts options) (path string, err error) {
	reader, writer, closeIO, err := newIO(ctx, opts.hand, opts.design, opts.out)
	if err != nil {
		return "", err
	}
	defer func() {
		err = errors.Join(err, closeIO())
	}()

	sess := session.New(session.WithObserver(func(st session.State) {
		if f, ok := st.(session.Failed); ok {
			slog.Debug("エラー表示", "message", f.Message)
		}
	}))
	normalizer := imgutil.NewNormalizer(imgutil.WithReader(reader))

	if err := load(ctx, sess, normalizer, opts.hand, sess.SetHand); err != nil {
		return "", err
	}
	if err := load(ctx, sess, normalizer, opts.design, sess.SetDesign); err != nil {
		return "", err
	}

	url, err := sess.Generate(ctx, adapters.NewClient(opts.server, nil))
	if err != nil {
		return "", err
	}

	mimeType, data, err := domain.ParseDataURL(url)
	if err != nil {
		return "", fmt.Errorf("生成画像を読み取れません: %w", err)
	}
	path = opts.out + extensionFor(mimeType)
	if err := writer.Write(ctx, path, bytes.NewReader(data), mimeType); err != nil {
		return "", fmt.Errorf("生成画像を保存できません: %w", err)
	}
	return path, sess.StartOver()
}

// newIO はパスの形式に応じて remoteio の reader と writer を用意します。
// gs:// か s3:// を含む場合だけクラウドのクライアントを初期化します（両方の混在には対応しません）。
func newIO(ctx context.Context, paths ...string) (remoteio.InputReader, remoteio.OutputWriter, func() error, error) {
	var newFactory func(context.Context) (remoteio.IOFactory, error)
	for _, p := range paths {
		switch {
		case remoteio.IsGCSURI(p):
			newFactory = gcsfactory.New
		case remoteio.IsS3URI(p):
			newFactory = s3factory.New
		}
	}
	if newFactory == nil {
		return remoteio.NewUniversalInputReader(nil, nil), remoteio.NewUniversalIOWriter(nil, nil), func() error { return nil }, nil
	}

	factory, err := newFactory(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	reader, err := factory.InputReader()
	if err != nil {
		return nil, nil, nil, errors.Join(err, factory.Close())
	}
	writer, err := factory.OutputWriter()
	if err != nil {
		return nil, nil, nil, errors.Join(err, factory.Close())
	}
	return reader, writer, factory.Close, nil
}

// load は path が指定されていれば正規化して set に渡します。
// 読み込みに失敗した場合はセッションにエラーを表示させ、そのエラーを返します。
func load(ctx context.Context, sess *session.Session, n *imgutil.Normalizer, path string, set func(*domain.NormalizedImage) error) error {
	if path == "" {
		return nil
	}
	img, err := n.NormalizeFile(ctx, path)
	if err != nil {
		_ = sess.LoadFailed(err.Error())
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return set(img)
}

func extensionFor(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}
