package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"healthbot/pkg/media"
)

const DefaultBaseURL = "https://integrate.api.nvidia.com/v1"

// ErrEmptyResponse is returned when the backend answers without any text.
var ErrEmptyResponse = errors.New("llm: empty response")

// Request is one generative call. Image, when set, holds raw photo bytes and
// switches the call to the vision model.
type Request struct {
	Directive   string
	UserText    string
	Image       []byte
	MaxTokens   int
	Temperature float64
}

type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	VisionModel string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client talks to any OpenAI compatible chat completions endpoint.
type Client struct {
	client openai.Client
	cfg    Config
	photos *media.PhotoProcessor
}

func NewClient(cfg Config, photos *media.PhotoProcessor) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.VisionModel == "" {
		cfg.VisionModel = cfg.Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if photos == nil {
		photos = media.NewPhotoProcessor(media.DefaultOptions())
	}

	return &Client{
		client: openai.NewClient(
			option.WithBaseURL(cfg.BaseURL),
			option.WithAPIKey(cfg.APIKey),
			// A failed call is surfaced to the user once.
			option.WithMaxRetries(0),
		),
		cfg:    cfg,
		photos: photos,
	}
}

// Generate sends the directive as the system message and the user text (plus
// the photo, if any) as the user message, and returns the reply text.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	model := c.cfg.Model
	user := openai.UserMessage(req.UserText)
	if len(req.Image) > 0 {
		photo, err := c.photos.Prepare(req.Image)
		if err != nil {
			return "", fmt.Errorf("prepare photo: %w", err)
		}
		model = c.cfg.VisionModel
		user = imageMessage(req.UserText, photo)
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.Directive != "" {
		messages = append(messages, openai.SystemMessage(req.Directive))
	}
	messages = append(messages, user)

	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.cfg.Temperature
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.cfg.MaxTokens
	}

	params := openai.ChatCompletionNewParams{
		Model:       shared.ChatModel(model),
		Messages:    messages,
		Temperature: openai.Float(temperature),
	}
	if maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(maxTokens))
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion (%s): %w", model, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func imageMessage(text string, photo *media.Photo) openai.ChatCompletionMessageParamUnion {
	dataURL := fmt.Sprintf("data:%s;base64,%s", photo.MimeType, base64.StdEncoding.EncodeToString(photo.Data))

	return openai.ChatCompletionMessageParamUnion{
		OfUser: &openai.ChatCompletionUserMessageParam{
			Content: openai.ChatCompletionUserMessageParamContentUnion{
				OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
					{OfText: &openai.ChatCompletionContentPartTextParam{Text: text}},
					{OfImageURL: &openai.ChatCompletionContentPartImageParam{
						ImageURL: openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL},
					}},
				},
			},
		},
	}
}
