package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marketbot/internal/fsm"
	"marketbot/internal/logger"
	"marketbot/internal/service"
	"marketbot/internal/storage"

	"gopkg.in/telebot.v3"
)

// Moderation queue

func moderationCardText(p *storage.Product) string {
	return fmt.Sprintf("ID: %d\nАвтор: %d\n\n%s\nЦена: %s\n\n%s",
		p.ID, p.UserID, p.Title, formatPrice(p.Price), p.Description)
}

func (b *Bot) handleModerationStart(c telebot.Context) error {
	product, err := storage.FirstProductByStatus(storage.ProductStatusPending)
	if err != nil {
		logger.Debug(c.Sender().ID, "error", fmt.Sprintf("failed to get first pending product: %v", err))
		return c.Send(msgGenericFailure)
	}
	if product == nil {
		return c.Send("Нет карточек на модерации.")
	}
	return sendCard(c, moderationCardText(product), product.PhotoFileID, moderationKeyboard(product.ID))
}

func (b *Bot) handleModerationSwitch(c telebot.Context, currentID int64, dir storage.Direction) error {
	product, err := storage.NextProductByStatus(storage.ProductStatusPending, currentID, dir)
	if err != nil {
		logger.Debug(c.Sender().ID, "error", fmt.Sprintf("failed to get next pending product: %v", err))
		return c.Respond(&telebot.CallbackResponse{Text: msgGenericFailure})
	}
	if product == nil {
		return c.Respond(&telebot.CallbackResponse{Text: "Больше карточек нет."})
	}

	if err := c.Delete(); err != nil {
		logger.Debug(c.Sender().ID, "error", fmt.Sprintf("failed to delete message: %v", err))
	}
	if err := sendCard(c, moderationCardText(product), product.PhotoFileID, moderationKeyboard(product.ID)); err != nil {
		return err
	}
	return c.Respond()
}

func (b *Bot) handleApprove(c telebot.Context, productID int64) error {
	err := b.moderation.Approve(context.Background(), productID)
	if errors.Is(err, service.ErrNotFound) {
		return c.Respond(&telebot.CallbackResponse{Text: msgProductGone})
	}
	if err != nil {
		logger.Debug(c.Sender().ID, "error", fmt.Sprintf("failed to approve product: %v", err))
		return c.Respond(&telebot.CallbackResponse{Text: msgGenericFailure})
	}

	if err := c.Respond(&telebot.CallbackResponse{Text: "Одобрено."}); err != nil {
		return err
	}
	return c.Delete()
}

func (b *Bot) handleReject(c telebot.Context, productID int64) error {
	err := b.moderation.Reject(context.Background(), productID)
	if errors.Is(err, service.ErrNotFound) {
		return c.Respond(&telebot.CallbackResponse{Text: msgProductGone})
	}
	if err != nil {
		logger.Debug(c.Sender().ID, "error", fmt.Sprintf("failed to reject product: %v", err))
		return c.Respond(&telebot.CallbackResponse{Text: msgGenericFailure})
	}

	if err := c.Respond(&telebot.CallbackResponse{Text: "Отклонено."}); err != nil {
		return err
	}
	return c.Delete()
}

// Edit-listing flow

func (b *Bot) handleEditStart(c telebot.Context, productID int64) error {
	b.flows.Set(c.Sender().ID, &fsm.EditListing{Step: fsm.StepChooseField, ProductID: productID})
	if err := c.Send(promptEditChoose, editFieldMenu()); err != nil {
		return err
	}
	return c.Respond()
}

func (b *Bot) handleEditInput(c telebot.Context, draft *fsm.EditListing, text, photoFileID string) error {
	switch draft.Step {
	case fsm.StepChooseField:
		if text == btnCancel {
			b.flows.Clear(c.Sender().ID)
			return c.Send(msgEditCancelled)
		}
		field, ok := chooseEditField(text)
		if !ok {
			return c.Send(msgEditBadField)
		}
		draft.Field = field
		draft.Step = fsm.StepNewValue
		return c.Send(editPrompt(field))

	case fsm.StepNewValue:
		return b.applyEdit(c, draft, text, photoFileID)
	}

	b.flows.Clear(c.Sender().ID)
	return c.Send("Что-то пошло не так, начни заново.")
}

// applyEdit validates the new value and updates the chosen field. Invalid
// input re-prompts without touching the flow; a vanished product aborts.
func (b *Bot) applyEdit(c telebot.Context, draft *fsm.EditListing, text, photoFileID string) error {
	ctx := context.Background()
	var err error

	switch draft.Field {
	case fsm.FieldPrice:
		price, ok := parsePriceRub(text)
		if !ok {
			return c.Send(msgEditBadPrice)
		}
		err = b.moderation.UpdatePrice(ctx, draft.ProductID, price)
	case fsm.FieldPhoto:
		if photoFileID == "" {
			return c.Send(msgEditNeedPhoto)
		}
		err = b.moderation.UpdatePhoto(ctx, draft.ProductID, photoFileID)
	case fsm.FieldTitle:
		err = b.moderation.UpdateTitle(ctx, draft.ProductID, strings.TrimSpace(text))
	case fsm.FieldDescription:
		err = b.moderation.UpdateDescription(ctx, draft.ProductID, strings.TrimSpace(text))
	default:
		b.flows.Clear(c.Sender().ID)
		return c.Send("Что-то пошло не так, начни заново.")
	}

	b.flows.Clear(c.Sender().ID)
	if errors.Is(err, service.ErrNotFound) {
		return c.Send(msgProductGone)
	}
	if err != nil {
		logger.Debug(c.Sender().ID, "error", fmt.Sprintf("failed to update product: %v", err))
		return c.Send(msgGenericFailure)
	}
	return c.Send(msgProductUpdated)
}

// Statistics

func (b *Bot) handleStats(c telebot.Context) error {
	stats, err := b.moderation.Stats(context.Background())
	if err != nil {
		logger.Debug(c.Sender().ID, "error", fmt.Sprintf("failed to get stats: %v", err))
		return c.Send(msgGenericFailure)
	}
	if len(stats) == 0 {
		return c.Send("Пользователей пока нет.")
	}

	lines := make([]string, 0, len(stats))
	for _, s := range stats {
		username := s.Username
		if username == "" {
			username = "-"
		}
		lines = append(lines, fmt.Sprintf("%d (@%s): всего %d, одобрено %d, отклонено %d",
			s.TelegramID, username, s.Total, s.Approved, s.Rejected))
	}
	return c.Send(strings.Join(lines, "\n"))
}

// Withdrawal queue

func withdrawalCardText(wd *storage.WithdrawalRequest, user *storage.User) string {
	username := "-"
	var telegramID int64
	if user != nil {
		telegramID = user.TelegramID
		if user.Username != "" {
			username = user.Username
		}
	}
	return fmt.Sprintf("Заявка #%d\nПользователь: %d (@%s)\nСумма: %s\nРеквизиты: %s",
		wd.ID, telegramID, username, formatPrice(wd.Amount), wd.Details)
}

func (b *Bot) sendWithdrawalCard(c telebot.Context, wd *storage.WithdrawalRequest) error {
	user, err := storage.GetUserByID(wd.UserID)
	if err != nil {
		logger.Debug(c.Sender().ID, "error", fmt.Sprintf("failed to get withdrawal user: %v", err))
	}
	return c.Send(withdrawalCardText(wd, user), withdrawalsKeyboard(wd.ID))
}

func (b *Bot) handleWithdrawalsStart(c telebot.Context) error {
	wd, err := storage.FirstPendingWithdrawal()
	if err != nil {
		logger.Debug(c.Sender().ID, "error", fmt.Sprintf("failed to get first withdrawal: %v", err))
		return c.Send(msgGenericFailure)
	}
	if wd == nil {
		return c.Send("Нет заявок на вывод.")
	}
	return b.sendWithdrawalCard(c, wd)
}

func (b *Bot) handleWithdrawalsSwitch(c telebot.Context, currentID int64, dir storage.Direction) error {
	wd, err := storage.NextPendingWithdrawal(currentID, dir)
	if err != nil {
		logger.Debug(c.Sender().ID, "error", fmt.Sprintf("failed to get next withdrawal: %v", err))
		return c.Respond(&telebot.CallbackResponse{Text: msgGenericFailure})
	}
	if wd == nil {
		return c.Respond(&telebot.CallbackResponse{Text: "Больше заявок нет."})
	}

	if err := c.Delete(); err != nil {
		logger.Debug(c.Sender().ID, "error", fmt.Sprintf("failed to delete message: %v", err))
	}
	if err := b.sendWithdrawalCard(c, wd); err != nil {
		return err
	}
	return c.Respond()
}

func (b *Bot) handleWithdrawalPaid(c telebot.Context, withdrawalID int64) error {
	err := b.withdrawals.MarkPaid(context.Background(), withdrawalID)
	if errors.Is(err, service.ErrNotFound) {
		return c.Respond(&telebot.CallbackResponse{Text: "Заявка не найдена."})
	}
	if errors.Is(err, service.ErrAlreadyPaid) {
		return c.Respond(&telebot.CallbackResponse{Text: "Уже выплачено."})
	}
	if err != nil {
		logger.Debug(c.Sender().ID, "error", fmt.Sprintf("failed to mark withdrawal paid: %v", err))
		return c.Respond(&telebot.CallbackResponse{Text: msgGenericFailure})
	}

	if err := c.Respond(&telebot.CallbackResponse{Text: "Отмечено как выплачено."}); err != nil {
		return err
	}
	return c.Delete()
}
