// Package gemini はGoogle Gemini APIを使用した商品説明文の生成クライアントを提供します。
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"shop_backend/internal/feature/catalog/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
)

// Copywriter はGoogle Gemini APIで商品説明文を生成します。
type Copywriter struct {
	client *genai.Client
	model  string
}

// CopywriterがCopywriterインターフェースを実装していることをコンパイル時に検証します。
var _ usecase.Copywriter = (*Copywriter)(nil)

// NewCopywriter は環境変数の認証情報を使用してCopywriterを生成します。
// GEMINI_API_KEY、またはVertex AI用の GOOGLE_GENAI_USE_VERTEXAI, GOOGLE_CLOUD_PROJECT, GOOGLE_CLOUD_LOCATION が必要です。
// httpClientがnilの場合はSDKの既定クライアントを使います。
func NewCopywriter(ctx context.Context, model string, httpClient *http.Client) (*Copywriter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{HTTPClient: httpClient})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return NewCopywriterWithClient(client, model), nil
}

// NewCopywriterWithClient は生成済みのgenai.ClientからCopywriterを生成します。
func NewCopywriterWithClient(client *genai.Client, model string) *Copywriter {
	if model == "" {
		model = DefaultModel
	}
	return &Copywriter{client: client, model: model}
}

// Describe はプロンプトから説明文を生成します。
func (g *Copywriter) Describe(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini API request failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", errors.New("gemini returned an empty response")
	}
	return text, nil
}
