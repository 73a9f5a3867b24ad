package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marketbot/internal/fsm"
	"marketbot/internal/logger"
	"marketbot/internal/metrics"
	"marketbot/internal/service"
	"marketbot/internal/storage"

	"gopkg.in/telebot.v3"
)

const msgGenericFailure = "Что-то пошло не так, попробуй ещё раз."

func (b *Bot) handleStart(c telebot.Context) error {
	metrics.UpdatesTotal.WithLabelValues("command").Inc()

	user, err := b.currentUser(c)
	if err != nil {
		logger.Debug(c.Sender().ID, "error", fmt.Sprintf("failed to get user: %v", err))
		return c.Send(msgGenericFailure)
	}
	return c.Send("Привет. Это тестовый маркетплейс-бот.", mainMenu(user.IsAdmin))
}

func (b *Bot) handleBack(c telebot.Context) error {
	b.flows.Clear(c.Sender().ID)
	user, err := b.currentUser(c)
	if err != nil {
		logger.Debug(c.Sender().ID, "error", fmt.Sprintf("failed to get user: %v", err))
		return c.Send(msgGenericFailure)
	}
	return c.Send("Главное меню", mainMenu(user.IsAdmin))
}

// Add-listing flow

func (b *Bot) handleAddListingStart(c telebot.Context) error {
	b.flows.Set(c.Sender().ID, &fsm.AddListing{Step: fsm.StepTitle})
	return c.Send(promptTitle)
}

func (b *Bot) handleAddListingInput(c telebot.Context, draft *fsm.AddListing, text, photoFileID string) error {
	reply, done := advanceAddListing(draft, text, photoFileID)
	if !done {
		return c.Send(reply)
	}

	user, err := b.currentUser(c)
	if err != nil {
		b.flows.Clear(c.Sender().ID)
		logger.Debug(c.Sender().ID, "error", fmt.Sprintf("failed to get user: %v", err))
		return c.Send(msgGenericFailure)
	}

	product, err := storage.CreateProduct(user.ID, draft.Title, draft.Description, draft.Price, draft.PhotoFileID)
	b.flows.Clear(c.Sender().ID)
	if err != nil {
		logger.Debug(c.Sender().ID, "error", fmt.Sprintf("failed to create product: %v", err))
		return c.Send(msgGenericFailure)
	}

	metrics.ListingsCreated.Inc()
	logger.Info(c.Sender().ID, "listing_created", fmt.Sprintf("product_id=%d price=%d", product.ID, product.Price))
	return c.Send(msgListingCreated)
}

// Browsing approved listings

func productCardText(p *storage.Product) string {
	return fmt.Sprintf("Товар #%d\n\n%s\nЦена: %s\n\n%s", p.ID, p.Title, formatPrice(p.Price), p.Description)
}

// sendCard sends a photo card when the entity has one, a text card
// otherwise
func sendCard(c telebot.Context, text, photoFileID string, kb *telebot.ReplyMarkup) error {
	if photoFileID != "" {
		photo := &telebot.Photo{File: telebot.File{FileID: photoFileID}, Caption: text}
		return c.Send(photo, kb)
	}
	return c.Send(text, kb)
}

func (b *Bot) handleBrowse(c telebot.Context) error {
	product, err := storage.FirstProductByStatus(storage.ProductStatusApproved)
	if err != nil {
		logger.Debug(c.Sender().ID, "error", fmt.Sprintf("failed to get first product: %v", err))
		return c.Send(msgGenericFailure)
	}
	if product == nil {
		return c.Send("Пока нет одобренных карточек.")
	}
	return sendCard(c, productCardText(product), product.PhotoFileID, productBrowseKeyboard(product.ID))
}

func (b *Bot) handleBrowseSwitch(c telebot.Context, currentID int64, dir storage.Direction) error {
	product, err := storage.NextProductByStatus(storage.ProductStatusApproved, currentID, dir)
	if err != nil {
		logger.Debug(c.Sender().ID, "error", fmt.Sprintf("failed to get next product: %v", err))
		return c.Respond(&telebot.CallbackResponse{Text: msgGenericFailure})
	}
	if product == nil {
		return c.Respond(&telebot.CallbackResponse{Text: "Больше товаров нет."})
	}

	if err := c.Delete(); err != nil {
		logger.Debug(c.Sender().ID, "error", fmt.Sprintf("failed to delete message: %v", err))
	}
	if err := sendCard(c, productCardText(product), product.PhotoFileID, productBrowseKeyboard(product.ID)); err != nil {
		return err
	}
	return c.Respond()
}

// Buying

func (b *Bot) handleBuy(c telebot.Context, productID int64) error {
	product, err := storage.GetProductByID(productID)
	if err != nil {
		logger.Debug(c.Sender().ID, "error", fmt.Sprintf("failed to get product: %v", err))
		return c.Respond(&telebot.CallbackResponse{Text: msgGenericFailure})
	}
	if product == nil || product.Status != storage.ProductStatusApproved {
		return c.Respond(&telebot.CallbackResponse{Text: "Товар недоступен."})
	}

	description := product.Description
	if len([]rune(description)) > 200 {
		description = string([]rune(description)[:200])
	}

	invoice := &telebot.Invoice{
		Title:       product.Title,
		Description: description,
		Payload:     service.InvoicePayload(product.ID),
		Currency:    b.currency,
		Token:       b.providerToken,
		Prices: []telebot.Price{
			{Label: product.Title, Amount: int(product.Price)},
		},
	}
	if err := c.Send(invoice); err != nil {
		logger.Debug(c.Sender().ID, "error", fmt.Sprintf("failed to send invoice: %v", err))
		return c.Respond(&telebot.CallbackResponse{Text: msgGenericFailure})
	}
	return c.Respond()
}

// handleCheckout always approves: any approved product can be bought any
// number of times, there is no stock to run out of.
func (b *Bot) handleCheckout(c telebot.Context) error {
	metrics.UpdatesTotal.WithLabelValues("checkout").Inc()
	return c.Accept()
}

func (b *Bot) handlePayment(c telebot.Context) error {
	metrics.UpdatesTotal.WithLabelValues("payment").Inc()

	payment := c.Message().Payment
	if payment == nil {
		return nil
	}

	sender := c.Sender()
	buyer := service.Buyer{
		TelegramID: sender.ID,
		Username:   sender.Username,
		IsAdmin:    b.isAdmin(sender.ID),
	}

	result, err := b.settlement.Settle(context.Background(), buyer, payment.Payload, int64(payment.Total), payment.TelegramChargeID)
	if err != nil {
		logger.Debug(sender.ID, "error", fmt.Sprintf("settlement failed: %v", err))
		return c.Send(msgGenericFailure)
	}

	switch result {
	case service.Settled:
		metrics.SettlementsTotal.Inc()
		return c.Send("Оплата прошла успешно.")
	case service.Replayed:
		metrics.SettlementsReplayed.Inc()
	case service.Dropped:
		metrics.SettlementsDropped.Inc()
	}
	return nil
}

// Balance and withdrawal

func (b *Bot) handleBalance(c telebot.Context) error {
	user, err := b.currentUser(c)
	if err != nil {
		logger.Debug(c.Sender().ID, "error", fmt.Sprintf("failed to get user: %v", err))
		return c.Send(msgGenericFailure)
	}
	return c.Send(fmt.Sprintf("Твой баланс: %s", formatPrice(user.Balance)), balanceMenu())
}

func (b *Bot) handleWithdrawStart(c telebot.Context) error {
	user, err := b.currentUser(c)
	if err != nil {
		logger.Debug(c.Sender().ID, "error", fmt.Sprintf("failed to get user: %v", err))
		return c.Send(msgGenericFailure)
	}
	// Optimistic check; the service re-checks inside the transaction
	if user.Balance <= 0 {
		return c.Send("Баланс нулевой, выводить нечего.")
	}
	b.flows.Set(c.Sender().ID, &fsm.Withdraw{})
	return c.Send("Введи реквизиты для вывода. Выводится вся сумма.")
}

func (b *Bot) handleWithdrawDetails(c telebot.Context, text string) error {
	b.flows.Clear(c.Sender().ID)

	_, err := b.withdrawals.Create(context.Background(), c.Sender().ID, strings.TrimSpace(text))
	if errors.Is(err, service.ErrEmptyBalance) {
		return c.Send("Баланс нулевой, вывод невозможен.")
	}
	if err != nil {
		logger.Debug(c.Sender().ID, "error", fmt.Sprintf("failed to create withdrawal: %v", err))
		return c.Send(msgGenericFailure)
	}

	metrics.WithdrawalsCreated.Inc()
	return c.Send("Заявка на вывод создана, админ посмотрит.")
}
