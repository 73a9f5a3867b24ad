package bot

import (
	"fmt"
	"strconv"
	"strings"

	"marketbot/internal/fsm"
)

// Flow prompts and validation replies
const (
	promptTitle       = "Введи название товара:"
	promptDescription = "Теперь описание:"
	promptPrice       = "Цена в рублях (целое число):"
	promptPhoto       = "Отправь фото товара или напиши 'нет':"

	msgBadPrice       = "Нужно целое число. Попробуй ещё раз."
	msgBadPhoto       = "Отправь фото или напиши 'нет'."
	msgListingCreated = "Карточка создана и отправлена на модерацию."

	promptEditChoose = "Что меняем?"
	promptEditPrice  = "Новая цена в рублях (целое число):"
	promptEditPhoto  = "Отправь новое фото:"
	promptEditText   = "Введи новое значение:"

	msgEditCancelled  = "Редактирование отменено."
	msgEditBadField   = "Выбери поле с клавиатуры."
	msgEditBadPrice   = "Цена должна быть целым числом."
	msgEditNeedPhoto  = "Отправь фото."
	msgProductUpdated = "Карточка обновлена."
	msgProductGone    = "Карточка не найдена."
)

// parseCallback splits an "<action>:<entityId>" callback payload
func parseCallback(data string) (string, int64, bool) {
	action, idStr, found := strings.Cut(data, ":")
	if !found {
		return "", 0, false
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return "", 0, false
	}
	return action, id, true
}

// parsePriceRub parses a whole-ruble amount and converts it to kopecks.
// Anything that is not a positive integer is rejected.
func parsePriceRub(text string) (int64, bool) {
	rub, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil || rub <= 0 {
		return 0, false
	}
	return rub * 100, true
}

func formatPrice(kopecks int64) string {
	return fmt.Sprintf("%.2f ₽", float64(kopecks)/100)
}

// advanceAddListing feeds one update into the add-listing flow. It mutates
// the draft in place and returns the reply to send; done means the draft
// is complete and ready to persist. Invalid input leaves the step as is.
func advanceAddListing(d *fsm.AddListing, text, photoFileID string) (reply string, done bool) {
	switch d.Step {
	case fsm.StepTitle:
		d.Title = strings.TrimSpace(text)
		d.Step = fsm.StepDescription
		return promptDescription, false

	case fsm.StepDescription:
		d.Description = strings.TrimSpace(text)
		d.Step = fsm.StepPrice
		return promptPrice, false

	case fsm.StepPrice:
		price, ok := parsePriceRub(text)
		if !ok {
			return msgBadPrice, false
		}
		d.Price = price
		d.Step = fsm.StepPhoto
		return promptPhoto, false

	case fsm.StepPhoto:
		if photoFileID != "" {
			d.PhotoFileID = photoFileID
			return "", true
		}
		if strings.ToLower(strings.TrimSpace(text)) == noPhotoToken {
			return "", true
		}
		return msgBadPhoto, false
	}
	return "", false
}

// chooseEditField maps a keyboard label to the product field it edits
func chooseEditField(label string) (fsm.EditField, bool) {
	switch label {
	case btnFieldTitle:
		return fsm.FieldTitle, true
	case btnFieldDescription:
		return fsm.FieldDescription, true
	case btnFieldPrice:
		return fsm.FieldPrice, true
	case btnFieldPhoto:
		return fsm.FieldPhoto, true
	}
	return "", false
}

func editPrompt(field fsm.EditField) string {
	switch field {
	case fsm.FieldPrice:
		return promptEditPrice
	case fsm.FieldPhoto:
		return promptEditPhoto
	}
	return promptEditText
}
