package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/shouni/gemini-nail-kit/pkg/domain"
	"github.com/shouni/go-http-kit/pkg/httpkit"
)

const (
	// GeneratePath はプロキシの生成エンドポイントです。
	GeneratePath = "/api/generate"

	ErrorPrefix      = "failed to generate design: "
	MalformedMessage = "malformed response from server (the request probably timed out)"
	NoImageMessage   = "no image received from server"

	// DefaultTimeout は既定の HTTP クライアントのタイムアウトです。
	// 生成の待ち時間がサーバーの書き込みタイムアウトより先に切れないよう長めにしています。
	DefaultTimeout = 10 * time.Minute
)

// HTTPDoer は http.Client や httpkit.Client が満たすインターフェースです。
type HTTPDoer = httpkit.Doer

// Client はプロキシに正規化済みの画像2枚を送り、生成画像の data URL を受け取ります。
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// NewClient は Client を作ります。httpClient が nil の場合は NewHTTPClient の結果を使います。
func NewClient(baseURL string, httpClient HTTPDoer) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(DefaultTimeout)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// NewHTTPClient はプロキシ向けの httpkit.Client を作ります。
// プロキシは localhost で動かすことが多いため、ネットワーク検証は行いません。
// Do はリトライしないので、1回の操作で送信されるリクエストは1件だけです。
func NewHTTPClient(timeout time.Duration) *httpkit.Client {
	return httpkit.New(timeout, httpkit.WithSkipNetworkValidation(true))
}

// GenerateNailDesign は1回だけリクエストを送り、応答を最後まで読んでから解釈します。
// 返すエラーはすべて "failed to generate design: " で始まり、domain.Error の分類を保ちます。
func (c *Client) GenerateNailDesign(ctx context.Context, hand, design *domain.NormalizedImage) (string, error) {
	const op = "adapters.GenerateNailDesign"

	body, err := json.Marshal(domain.ClientGenerationRequest{HandImage: hand, NailDesignImage: design})
	if err != nil {
		return "", fail(domain.KindTransport, op, err.Error(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+GeneratePath, bytes.NewReader(body))
	if err != nil {
		return "", fail(domain.KindTransport, op, err.Error(), err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fail(domain.KindTransport, op, err.Error(), err)
	}
	defer resp.Body.Close()

	// チャンク転送でもまとめて返されても、EOF まで読み切ってから解釈する
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fail(domain.KindTransport, op, err.Error(), err)
	}

	var result domain.GenerationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		slog.WarnContext(ctx, "サーバーの応答を JSON として解釈できません",
			"status", resp.StatusCode,
			"bytes", len(raw),
			"error", err,
		)
		return "", fail(domain.KindMalformed, op, MalformedMessage, err)
	}

	if resp.StatusCode != http.StatusOK {
		message := result.Error
		if message == "" {
			message = fmt.Sprintf("server error: %d", resp.StatusCode)
		}
		return "", fail(kindForStatus(resp.StatusCode), op, message, nil)
	}
	if result.Error != "" {
		return "", fail(domain.KindUpstream, op, result.Error, nil)
	}
	if result.ImageURL == "" {
		return "", fail(domain.KindUpstream, op, NoImageMessage, nil)
	}
	return result.ImageURL, nil
}

func fail(kind domain.ErrorKind, op, message string, cause error) error {
	return domain.WrapError(kind, op, ErrorPrefix+message, cause)
}

func kindForStatus(status int) domain.ErrorKind {
	if status >= 400 && status < 500 {
		return domain.KindValidation
	}
	return domain.KindUpstream
}
