package annotator

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"homework-wall/biz/infrastructure/consts"
	"homework-wall/biz/infrastructure/repository/homework"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cast"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const systemInstruction = `你是一位乐于助人、善于鼓励的初中教师助手。
你的工作是查看学生作业或项目封面的图片，识别学科，提供非常简短的一句话摘要，并写一句简短的鼓励性评语。
请务必使用简体中文回答。`

const (
	userInstruction = "分析这份作业提交。识别可能的学科（例如：数学、历史、美术、语文等），用一句话概括可见内容，并写一句3-5个字的简短鼓励语（例如：“字迹工整！”或“非常有创意！”）。"
	apiKeyHeader    = "x-goog-api-key"
)

// IAnnotator 对图片作业做 AI 分析
type IAnnotator interface {
	Annotate(ctx context.Context, image []byte, mimeType string) (*homework.Annotation, error)
}

type GeminiOptions struct {
	BaseURL    string
	Model      string
	APIKey     string
	HTTPClient *http.Client
}

// GeminiClient 通过 generateContent REST 接口调用 Gemini
type GeminiClient struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
}

// HTTPError 非 2xx 响应
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("gemini http %d: %s", e.StatusCode, e.Body)
}

func NewGeminiClient(opts GeminiOptions) *GeminiClient {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	}
	return &GeminiClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		model:      opts.Model,
		apiKey:     opts.APIKey,
	}
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMimeType string         `json:"responseMimeType"`
	ResponseSchema   map[string]any `json:"responseSchema"`
}

type generateContentReq struct {
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type generateContentResp struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func annotationSchema() map[string]any {
	return map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"subject": map[string]any{"type": "STRING"},
			"summary": map[string]any{"type": "STRING"},
			"comment": map[string]any{"type": "STRING", "description": "简短的鼓励性评语，如'字迹工整！'或'非常有创意！'"},
		},
		"required": []string{"subject", "summary", "comment"},
	}
}

// Annotate 单次调用，不重试
func (c *GeminiClient) Annotate(ctx context.Context, image []byte, mimeType string) (*homework.Annotation, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: empty image", consts.ErrAnnotation)
	}
	body := &generateContentReq{
		SystemInstruction: &content{Parts: []part{{Text: systemInstruction}}},
		Contents: []content{{
			Role: "user",
			Parts: []part{
				{InlineData: &inlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(image)}},
				{Text: userInstruction},
			},
		}},
		GenerationConfig: generationConfig{
			ResponseMimeType: consts.ContentTypeJson,
			ResponseSchema:   annotationSchema(),
		},
	}

	raw, err := c.doOnce(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", consts.ErrAnnotation, err)
	}

	var resp generateContentResp
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: 反序列化响应失败: %w", consts.ErrAnnotation, err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: AI 没有返回响应", consts.ErrAnnotation)
	}
	var text strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	return parseAnnotation(text.String())
}

func (c *GeminiClient) doOnce(ctx context.Context, body any) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("请求体序列化失败: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, consts.Post, url, &buf)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", consts.ContentTypeJson)
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("发送请求失败: %w", err)
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, fmt.Errorf("读取响应失败: %w", readErr)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return raw, nil
}

// parseAnnotation 三个字段缺一不可
func parseAnnotation(text string) (*homework.Annotation, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: AI 没有返回响应", consts.ErrAnnotation)
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return nil, fmt.Errorf("%w: 分析结果不是合法 JSON: %w", consts.ErrAnnotation, err)
	}
	a := &homework.Annotation{
		Subject: strings.TrimSpace(cast.ToString(fields["subject"])),
		Summary: strings.TrimSpace(cast.ToString(fields["summary"])),
		Comment: strings.TrimSpace(cast.ToString(fields["comment"])),
	}
	if a.Subject == "" || a.Summary == "" || a.Comment == "" {
		return nil, fmt.Errorf("%w: %w", consts.ErrAnnotation, errors.New("分析结果字段不完整"))
	}
	return a, nil
}
