// Package gateway holds clients for external messaging services.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/config"
)

// WhatsAppClient sends templated messages through a Gallabox-style
// WhatsApp API (JSON body, apiKey/apiSecret headers, channel-scoped
// templates).
type WhatsAppClient struct {
	cfg        config.WhatsAppConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewWhatsAppClient constructs the client.
func NewWhatsAppClient(cfg config.WhatsAppConfig, logger *zap.Logger) *WhatsAppClient {
	return &WhatsAppClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		logger:     logger,
	}
}

type templateMessage struct {
	ChannelID   string    `json:"channelId"`
	ChannelType string    `json:"channelType"`
	Recipient   recipient `json:"recipient"`
	WhatsApp    whatsApp  `json:"whatsapp"`
}

type recipient struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type whatsApp struct {
	Type     string   `json:"type"`
	Template template `json:"template"`
}

type template struct {
	TemplateName string            `json:"templateName"`
	BodyValues   map[string]string `json:"bodyValues"`
}

// SendTemplated sends one template message to the given phone number.
// Variables become the template body values verbatim.
func (c *WhatsAppClient) SendTemplated(ctx context.Context, name, phone, templateName string, variables map[string]string) error {
	if !c.cfg.Enabled {
		c.logger.Debug("whatsapp disabled; dropping message",
			zap.String("template", templateName))
		return nil
	}

	formatted := FormatPhoneNumber(phone)
	if formatted == "" {
		return fmt.Errorf("no usable phone number for template %s", templateName)
	}

	msg := templateMessage{
		ChannelID:   c.cfg.ChannelID,
		ChannelType: "whatsapp",
		Recipient: recipient{
			Name:  name,
			Phone: "91" + formatted,
		},
		WhatsApp: whatsApp{
			Type: "template",
			Template: template{
				TemplateName: templateName,
				BodyValues:   variables,
			},
		},
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal whatsapp message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build whatsapp request: %w", err)
	}
	req.Header.Set("apiKey", c.cfg.APIKey)
	req.Header.Set("apiSecret", c.cfg.APISecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send whatsapp message: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode >= 300 {
		return fmt.Errorf("whatsapp gateway returned %d: %s", resp.StatusCode, string(respBody))
	}

	c.logger.Info("whatsapp message sent",
		zap.String("template", templateName),
		zap.Int("status", resp.StatusCode))
	return nil
}

var phoneSeparators = regexp.MustCompile(`[\s\-\(\)]`)

// FormatPhoneNumber normalizes an Indian phone number for the gateway:
// strips a +91 or 91 prefix and any separators, leaving the bare
// subscriber number.
func FormatPhoneNumber(phone string) string {
	cleaned := strings.TrimPrefix(phone, "+91")
	cleaned = phoneSeparators.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimPrefix(cleaned, "91")
	return cleaned
}
