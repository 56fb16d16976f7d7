package telegram

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type UpdateHandler func(context.Context, tgbotapi.Update)

type Client struct {
	api         *tgbotapi.BotAPI
	logger      *zap.Logger
	handler     UpdateHandler
	pollTimeout int
	dryRun      bool
}

func NewClient(token string, pollTimeout int, logger *zap.Logger, handler UpdateHandler) (*Client, error) {
	if handler == nil {
		return nil, errors.New("telegram update handler is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if strings.TrimSpace(token) == "" {
		return &Client{
			logger:      logger,
			handler:     handler,
			pollTimeout: pollTimeout,
			dryRun:      true,
		}, nil
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &Client{
		api:         api,
		logger:      logger,
		handler:     handler,
		pollTimeout: pollTimeout,
	}, nil
}

// NewSender builds a client that can only send and edit messages. Used
// by processes that act on the bot's behalf without polling updates.
func NewSender(token string, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if strings.TrimSpace(token) == "" {
		return &Client{logger: logger, dryRun: true}, nil
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &Client{api: api, logger: logger}, nil
}

func (c *Client) Start(ctx context.Context) error {
	if c.handler == nil {
		return errors.New("telegram client has no update handler")
	}
	if c.dryRun {
		c.logger.Warn("bot token is empty, running in dry mode")
		<-ctx.Done()
		return nil
	}

	timeout := c.pollTimeout
	if timeout <= 0 {
		timeout = 30
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = timeout
	updates := c.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			c.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			c.handler(ctx, update)
		}
	}
}

// Send delivers a message and returns it, so callers can keep the
// message id for later edits.
func (c *Client) Send(msg tgbotapi.Chattable) (tgbotapi.Message, error) {
	if c.dryRun {
		return tgbotapi.Message{}, nil
	}
	return c.api.Send(msg)
}

// Request fires a chattable that has no message response, such as a
// callback query answer.
func (c *Client) Request(msg tgbotapi.Chattable) error {
	if c.dryRun {
		return nil
	}
	_, err := c.api.Request(msg)
	return err
}
