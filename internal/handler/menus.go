package handler

import (
	"math/rand/v2"

	tele "gopkg.in/telebot.v3"

	"puppymentor/internal/conversation"
	"puppymentor/internal/domain"
)

const (
	uniqueScheduleKind    = "sched_kind"
	uniqueScheduleDelete  = "sched_del"
	uniqueVaccinationDone = "vacc_done"
	uniqueTrainingCommand = "train_cmd"
)

const (
	textMainMenu   = "🏠 Главное меню\n\nВыберите действие:"
	textError      = "Произошла ошибка. Попробуйте позже."
	textAskName    = "🐶 Привет! Я помогу заботиться о вашем щенке.\n\nКак зовут щенка?"
	textStopped    = "🔕 Вы отписались от утренних советов. Нажмите /start, чтобы вернуться."
	textResetDone  = "🗑 Все данные удалены. Нажмите /start, чтобы начать заново."
	textAskTime    = "🕐 Во сколько? Введите время в формате ЧЧ:ММ (например, 08:30):"
	textAskWeight  = "⚖️ Введите вес щенка в кг (например, 12.5):"
	textAskBirth   = "🎂 Введите дату рождения щенка в формате ДД.ММ.ГГГГ:"
	textAskNormal  = "💬 Задайте вопрос о щенке:"
	textAskUrgent  = "🚨 Опишите, что случилось. Если щенку плохо, сразу звоните ветеринару!"
	textStale      = "Кнопка устарела"
	textNoBirth    = "Сначала укажите дату рождения щенка 🎂"
	textFeedLogged = "🍖 Кормление записано"
	textWalkOK     = "🚶 Прогулка записана"
	textWalkFail   = "💦 Неудача записана"
	textMarkedDone = "✅ Отмечено"
	textPickSkill  = "📝 Какую команду отработали?"
)

// Inline keyboard buttons
var (
	btnMainMenu = tele.Btn{Unique: "main_menu", Text: "🏠 Главное меню"}
	btnCancel   = tele.Btn{Unique: "cancel", Text: "❌ Отменить"}

	btnSchedule    = tele.Btn{Unique: "menu_schedule", Text: "📅 Расписание"}
	btnScheduleAdd = tele.Btn{Unique: "sched_add", Text: "➕ Добавить событие"}

	btnHealth       = tele.Btn{Unique: "menu_health", Text: "🩺 Здоровье"}
	btnVaccinations = tele.Btn{Unique: "vacc_list", Text: "💉 Прививки"}
	btnWeight       = tele.Btn{Unique: "weight_log", Text: "⚖️ Записать вес"}
	btnBirthDate    = tele.Btn{Unique: "birth_update", Text: "🎂 Изменить дату рождения"}

	btnTracker  = tele.Btn{Unique: "menu_tracker", Text: "🐾 Трекер"}
	btnFeed     = tele.Btn{Unique: "track_feed", Text: "🍖 Покормил"}
	btnWalkOK   = tele.Btn{Unique: "track_walk_ok", Text: "🚶 Сходил на улице"}
	btnWalkFail = tele.Btn{Unique: "track_walk_fail", Text: "💦 Неудача дома"}
	btnStats    = tele.Btn{Unique: "track_stats", Text: "📊 Сегодня"}

	btnTraining       = tele.Btn{Unique: "menu_training", Text: "🎓 Дрессировка"}
	btnTrainingSelect = tele.Btn{Unique: "train_select", Text: "📝 Отметить тренировку"}

	btnAssistant    = tele.Btn{Unique: "menu_assistant", Text: "🤖 Помощник"}
	btnAskNormal    = tele.Btn{Unique: "ai_normal", Text: "💬 Задать вопрос"}
	btnAskEmergency = tele.Btn{Unique: "ai_emergency", Text: "🚨 Срочно"}
	btnTip          = tele.Btn{Unique: "ai_tip", Text: "💡 Совет"}
)

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnSchedule, btnTracker),
		menu.Row(btnTraining, btnHealth),
		menu.Row(btnAssistant),
	)
	return menu
}

// scheduleMarkup lists a delete button per event
func scheduleMarkup(events []domain.ScheduleEvent) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(events)+2)
	for _, ev := range events {
		btn := menu.Data("🗑 "+ev.At.String()+" "+ev.DisplayName(), uniqueScheduleDelete, ev.ID.String())
		rows = append(rows, menu.Row(btn))
	}
	rows = append(rows, menu.Row(btnScheduleAdd), menu.Row(btnMainMenu))
	menu.Inline(rows...)
	return menu
}

func eventKindsMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	rows := []tele.Row{}
	for _, k := range domain.EventKinds() {
		rows = append(rows, menu.Row(menu.Data(k.Title(), uniqueScheduleKind, string(k))))
	}
	rows = append(rows, menu.Row(btnCancel))
	menu.Inline(rows...)
	return menu
}

func healthMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnVaccinations),
		menu.Row(btnWeight),
		menu.Row(btnBirthDate),
		menu.Row(btnMainMenu),
	)
	return menu
}

// vaccinationsMarkup offers a "done" button for every open entry
func vaccinationsMarkup(entries []domain.VaccinationEntry) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	rows := []tele.Row{}
	for _, e := range entries {
		if e.Completed {
			continue
		}
		btn := menu.Data("✅ "+e.Title, uniqueVaccinationDone, formatID(e.ID))
		rows = append(rows, menu.Row(btn))
	}
	rows = append(rows, menu.Row(btnHealth), menu.Row(btnMainMenu))
	menu.Inline(rows...)
	return menu
}

func trackerMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnFeed),
		menu.Row(btnWalkOK, btnWalkFail),
		menu.Row(btnStats),
		menu.Row(btnMainMenu),
	)
	return menu
}

func trainingMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnTrainingSelect),
		menu.Row(btnMainMenu),
	)
	return menu
}

// trainingCommandsMarkup offers one button per command, two per row
func trainingCommandsMarkup(cmds []domain.Command) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	rows := make([]tele.Row, 0, len(cmds)/2+2)
	var row tele.Row
	for _, c := range cmds {
		row = append(row, menu.Data(c.Name, uniqueTrainingCommand, c.ID))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, menu.Row(btnTraining))
	menu.Inline(rows...)
	return menu
}

func assistantMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnAskNormal, btnAskEmergency),
		menu.Row(btnTip),
		menu.Row(btnMainMenu),
	)
	return menu
}

func cancelMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(menu.Row(btnCancel))
	return menu
}

// menuMarkup maps a conversation menu to its keyboard
func menuMarkup(m conversation.Menu) *tele.ReplyMarkup {
	switch m {
	case conversation.MenuMain:
		return mainMenuMarkup()
	case conversation.MenuSchedule:
		return scheduleMarkup(nil)
	case conversation.MenuHealth:
		return healthMarkup()
	case conversation.MenuAssistant:
		return assistantMarkup()
	default:
		return nil
	}
}

func randomIndex(n int) int {
	return rand.IntN(n)
}
