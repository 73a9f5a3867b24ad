package bot

import (
	"fmt"

	"gopkg.in/telebot.v3"
)

// Reply-keyboard button labels. These are the routing keys for text
// updates, so they must match what the keyboards send back verbatim.
const (
	btnAddListing  = "Добавить карточку"
	btnBrowse      = "Посмотреть карточки"
	btnBalance     = "Баланс"
	btnAdminMenu   = "Админ меню"
	btnBack        = "Назад"
	btnWithdraw    = "Вывести"
	btnModeration  = "Модерация"
	btnStats       = "Статистика"
	btnWithdrawals = "Заявки на вывод"

	btnFieldTitle       = "Название"
	btnFieldDescription = "Описание"
	btnFieldPrice       = "Цена"
	btnFieldPhoto       = "Фото"
	btnCancel           = "Отмена"

	// noPhotoToken completes the add-listing flow without a photo
	noPhotoToken = "нет"
)

func replyMenu(rows ...[]string) *telebot.ReplyMarkup {
	keyboard := make([][]telebot.ReplyButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]telebot.ReplyButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, telebot.ReplyButton{Text: label})
		}
		keyboard = append(keyboard, buttons)
	}
	return &telebot.ReplyMarkup{ReplyKeyboard: keyboard, ResizeKeyboard: true}
}

func mainMenu(isAdmin bool) *telebot.ReplyMarkup {
	rows := [][]string{
		{btnAddListing},
		{btnBrowse},
		{btnBalance},
	}
	if isAdmin {
		rows = append(rows, []string{btnAdminMenu})
	}
	return replyMenu(rows...)
}

func adminMenu() *telebot.ReplyMarkup {
	return replyMenu(
		[]string{btnModeration},
		[]string{btnStats},
		[]string{btnWithdrawals},
		[]string{btnBack},
	)
}

func balanceMenu() *telebot.ReplyMarkup {
	return replyMenu(
		[]string{btnWithdraw},
		[]string{btnBack},
	)
}

func editFieldMenu() *telebot.ReplyMarkup {
	kb := replyMenu(
		[]string{btnFieldTitle, btnFieldDescription},
		[]string{btnFieldPrice, btnFieldPhoto},
		[]string{btnCancel},
	)
	kb.OneTimeKeyboard = true
	return kb
}

func inlineRow(buttons ...telebot.InlineButton) []telebot.InlineButton {
	return buttons
}

// productBrowseKeyboard carries the cursor: the payload suffix is the id
// of the product currently shown
func productBrowseKeyboard(productID int64) *telebot.ReplyMarkup {
	return &telebot.ReplyMarkup{
		InlineKeyboard: [][]telebot.InlineButton{
			inlineRow(
				telebot.InlineButton{Text: "«", Data: fmt.Sprintf("prod_prev:%d", productID)},
				telebot.InlineButton{Text: "Купить", Data: fmt.Sprintf("prod_buy:%d", productID)},
				telebot.InlineButton{Text: "»", Data: fmt.Sprintf("prod_next:%d", productID)},
			),
		},
	}
}

func moderationKeyboard(productID int64) *telebot.ReplyMarkup {
	return &telebot.ReplyMarkup{
		InlineKeyboard: [][]telebot.InlineButton{
			inlineRow(
				telebot.InlineButton{Text: "«", Data: fmt.Sprintf("mod_prev:%d", productID)},
				telebot.InlineButton{Text: "Добавить", Data: fmt.Sprintf("mod_approve:%d", productID)},
				telebot.InlineButton{Text: "Отклонить", Data: fmt.Sprintf("mod_reject:%d", productID)},
				telebot.InlineButton{Text: "Изменить", Data: fmt.Sprintf("mod_edit:%d", productID)},
			),
			inlineRow(
				telebot.InlineButton{Text: "»", Data: fmt.Sprintf("mod_next:%d", productID)},
			),
		},
	}
}

func withdrawalsKeyboard(withdrawalID int64) *telebot.ReplyMarkup {
	return &telebot.ReplyMarkup{
		InlineKeyboard: [][]telebot.InlineButton{
			inlineRow(
				telebot.InlineButton{Text: "«", Data: fmt.Sprintf("wd_prev:%d", withdrawalID)},
				telebot.InlineButton{Text: "Выплата проведена", Data: fmt.Sprintf("wd_paid:%d", withdrawalID)},
				telebot.InlineButton{Text: "»", Data: fmt.Sprintf("wd_next:%d", withdrawalID)},
			),
		},
	}
}
