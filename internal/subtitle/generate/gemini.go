package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/subgen/backend/internal/subtitle"
)

const geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta/models"

// KeyResolver returns the current Gemini API key from settings.
type KeyResolver func() string

// ModelResolver returns the current Gemini model from settings.
type ModelResolver func() string

// GeminiGenerator produces subtitles using the Google Gemini API.
// Single attempt, fail fast: retry policy belongs to the caller.
type GeminiGenerator struct {
	keyResolver   KeyResolver
	modelResolver ModelResolver
	baseURL       string
	httpClient    *http.Client
}

func NewGeminiGenerator(keyResolver KeyResolver, modelResolver ModelResolver) *GeminiGenerator {
	return &GeminiGenerator{
		keyResolver:   keyResolver,
		modelResolver: modelResolver,
		baseURL:       geminiAPIBase,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

func (g *GeminiGenerator) Name() string {
	return "gemini"
}

func (g *GeminiGenerator) currentModel() string {
	if g.modelResolver != nil {
		if m := g.modelResolver(); m != "" {
			return m
		}
	}
	return "gemini-2.0-flash"
}

// buildRequestBody assembles the generateContent request for a source.
// Inline media is attached as an inline_data part; a reference URL is
// embedded in the instructions and the search tool is enabled instead.
func buildRequestBody(lang subtitle.Language, src subtitle.Source) (map[string]interface{}, error) {
	var parts []map[string]interface{}
	var tools []map[string]interface{}

	switch src.Kind() {
	case subtitle.SourceInline:
		payload, mediaType, _ := src.Inline()
		parts = []map[string]interface{}{
			{"text": instructionText(lang)},
			{"inline_data": map[string]string{
				"mime_type": mediaType,
				"data":      payload,
			}},
		}
	case subtitle.SourceReference:
		url, _ := src.Reference()
		parts = []map[string]interface{}{
			{"text": referenceInstruction(lang, url)},
		}
		tools = []map[string]interface{}{
			{"google_search": map[string]interface{}{}},
		}
	default:
		return nil, subtitle.ErrNoSource
	}

	body := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": parts},
		},
		"generationConfig": map[string]interface{}{
			"temperature":      0.3,
			"responseMimeType": "application/json",
			"responseSchema":   responseSchema(),
		},
	}
	if tools != nil {
		body["tools"] = tools
	}
	return body, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (subtitle.Sequence, error) {
	var apiKey string
	if g.keyResolver != nil {
		apiKey = g.keyResolver()
	}
	if apiKey == "" {
		return nil, fmt.Errorf("%w: Gemini API key not configured", subtitle.ErrService)
	}

	reqBody, err := buildRequestBody(req.Language, req.Source)
	if err != nil {
		return nil, err
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	model := g.currentModel()
	log.Printf("[gemini] generating %s subtitles: model=%s source=%s", req.Language, model, req.Source.Kind())

	url := fmt.Sprintf("%s/%s:generateContent", g.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", apiKey)

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", subtitle.ErrService, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", subtitle.ErrService, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", subtitle.ErrService, resp.StatusCode, string(body))
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
			FinishReason string `json:"finishReason"`
		} `json:"candidates"`
		PromptFeedback struct {
			BlockReason string `json:"blockReason"`
		} `json:"promptFeedback"`
	}
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return nil, fmt.Errorf("%w: %v", subtitle.ErrMalformedResponse, err)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		if geminiResp.PromptFeedback.BlockReason != "" {
			return nil, fmt.Errorf("%w: blocked: %s", subtitle.ErrService, geminiResp.PromptFeedback.BlockReason)
		}
		return nil, subtitle.ErrEmptyResponse
	}
	if fr := geminiResp.Candidates[0].FinishReason; fr != "" && fr != "STOP" {
		log.Printf("[gemini] WARNING: finishReason=%s", fr)
	}

	return subtitle.ParseResponse(geminiResp.Candidates[0].Content.Parts[0].Text)
}
