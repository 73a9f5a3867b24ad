package bot

import (
	"fmt"
	"strings"
	"time"

	"marketbot/internal/config"
	"marketbot/internal/fsm"
	"marketbot/internal/logger"
	"marketbot/internal/metrics"
	"marketbot/internal/service"
	"marketbot/internal/storage"

	"gopkg.in/telebot.v3"
)

// Bot wires the Telegram transport to the marketplace services
type Bot struct {
	tb            *telebot.Bot
	flows         *fsm.Manager
	settlement    *service.SettlementService
	withdrawals   *service.WithdrawalService
	moderation    *service.ModerationService
	admins        map[int64]bool
	providerToken string
	currency      string
}

// New creates the bot and registers all handlers
func New(cfg *config.Config) (*Bot, error) {
	tb, err := telebot.NewBot(telebot.Settings{
		Token: cfg.BotToken,
		Poller: &telebot.LongPoller{
			Timeout: 10 * time.Second,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	admins := make(map[int64]bool, len(cfg.AdminIDs))
	for _, id := range cfg.AdminIDs {
		admins[id] = true
	}

	b := &Bot{
		tb:            tb,
		flows:         fsm.NewManager(),
		settlement:    service.NewSettlementService(),
		withdrawals:   service.NewWithdrawalService(),
		moderation:    service.NewModerationService(),
		admins:        admins,
		providerToken: cfg.ProviderToken,
		currency:      cfg.Currency,
	}
	b.register()
	return b, nil
}

// Start begins long polling. It blocks until Stop is called.
func (b *Bot) Start() {
	logger.Info(0, "bot_started", fmt.Sprintf("admins=%d", len(b.admins)))
	b.tb.Start()
}

// Stop stops long polling
func (b *Bot) Stop() {
	b.tb.Stop()
}

func (b *Bot) register() {
	b.tb.Handle("/start", b.handleStart)
	b.tb.Handle(telebot.OnText, b.handleText)
	b.tb.Handle(telebot.OnPhoto, b.handlePhoto)
	b.tb.Handle(telebot.OnCallback, b.handleCallback)
	b.tb.Handle(telebot.OnCheckout, b.handleCheckout)
	b.tb.Handle(telebot.OnPayment, b.handlePayment)
}

func (b *Bot) isAdmin(telegramID int64) bool {
	return b.admins[telegramID]
}

// currentUser resolves the sender, creating the user lazily on first
// interaction
func (b *Bot) currentUser(c telebot.Context) (*storage.User, error) {
	sender := c.Sender()
	return storage.GetOrCreateUser(sender.ID, sender.Username, b.isAdmin(sender.ID))
}

// handleText routes free text: an active flow consumes it first,
// otherwise it is matched against the reply-keyboard labels.
func (b *Bot) handleText(c telebot.Context) error {
	metrics.UpdatesTotal.WithLabelValues("text").Inc()
	senderID := c.Sender().ID

	if flow := b.flows.Get(senderID); flow != nil {
		return b.handleFlowInput(c, flow, c.Text(), "")
	}

	switch c.Text() {
	case btnAddListing:
		return b.handleAddListingStart(c)
	case btnBrowse:
		return b.handleBrowse(c)
	case btnBalance:
		return b.handleBalance(c)
	case btnWithdraw:
		return b.handleWithdrawStart(c)
	case btnBack:
		return b.handleBack(c)
	case btnAdminMenu:
		if !b.isAdmin(senderID) {
			return nil
		}
		return c.Send("Админ меню:", adminMenu())
	case btnModeration:
		if !b.isAdmin(senderID) {
			return nil
		}
		return b.handleModerationStart(c)
	case btnStats:
		if !b.isAdmin(senderID) {
			return nil
		}
		return b.handleStats(c)
	case btnWithdrawals:
		if !b.isAdmin(senderID) {
			return nil
		}
		return b.handleWithdrawalsStart(c)
	}

	return nil
}

// handlePhoto only matters inside flows that expect an attachment
func (b *Bot) handlePhoto(c telebot.Context) error {
	metrics.UpdatesTotal.WithLabelValues("photo").Inc()

	flow := b.flows.Get(c.Sender().ID)
	photo := c.Message().Photo
	if flow == nil || photo == nil {
		return nil
	}

	switch f := flow.(type) {
	case *fsm.AddListing:
		if f.Step == fsm.StepPhoto {
			return b.handleFlowInput(c, flow, "", photo.FileID)
		}
	case *fsm.EditListing:
		if f.Step == fsm.StepNewValue && f.Field == fsm.FieldPhoto {
			return b.handleFlowInput(c, flow, "", photo.FileID)
		}
	}
	return nil
}

func (b *Bot) handleCallback(c telebot.Context) error {
	metrics.UpdatesTotal.WithLabelValues("callback").Inc()

	data := strings.TrimPrefix(c.Callback().Data, "\f")
	action, id, ok := parseCallback(data)
	if !ok {
		logger.Debug(c.Sender().ID, "callback_unparsed", data)
		return c.Respond()
	}

	// Admin-only callbacks are filtered out before reaching handlers
	if strings.HasPrefix(action, "mod_") || strings.HasPrefix(action, "wd_") {
		if !b.isAdmin(c.Sender().ID) {
			return c.Respond()
		}
	}

	switch action {
	case "prod_prev":
		return b.handleBrowseSwitch(c, id, storage.Backward)
	case "prod_next":
		return b.handleBrowseSwitch(c, id, storage.Forward)
	case "prod_buy":
		return b.handleBuy(c, id)
	case "mod_prev":
		return b.handleModerationSwitch(c, id, storage.Backward)
	case "mod_next":
		return b.handleModerationSwitch(c, id, storage.Forward)
	case "mod_approve":
		return b.handleApprove(c, id)
	case "mod_reject":
		return b.handleReject(c, id)
	case "mod_edit":
		return b.handleEditStart(c, id)
	case "wd_prev":
		return b.handleWithdrawalsSwitch(c, id, storage.Backward)
	case "wd_next":
		return b.handleWithdrawalsSwitch(c, id, storage.Forward)
	case "wd_paid":
		return b.handleWithdrawalPaid(c, id)
	}

	logger.Debug(c.Sender().ID, "callback_unknown", data)
	return c.Respond()
}

// handleFlowInput advances the sender's active flow with one update
func (b *Bot) handleFlowInput(c telebot.Context, flow fsm.Flow, text, photoFileID string) error {
	switch f := flow.(type) {
	case *fsm.AddListing:
		return b.handleAddListingInput(c, f, text, photoFileID)
	case *fsm.EditListing:
		return b.handleEditInput(c, f, text, photoFileID)
	case *fsm.Withdraw:
		return b.handleWithdrawDetails(c, text)
	}
	b.flows.Clear(c.Sender().ID)
	return nil
}
