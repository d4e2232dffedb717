package ai

// TipTopics are the themes of the morning tip
var TipTopics = []string{
	"социализация щенка",
	"приучение к туалету",
	"режим кормления",
	"уход за шерстью",
	"первые прогулки",
	"игры и развитие",
	"базовые команды",
	"уход за зубами и когтями",
}

var fallbackTips = map[string]string{
	"социализация щенка":       "🐾 Знакомьте щенка с новыми звуками, людьми и местами понемногу и всегда хвалите за спокойное поведение.",
	"приучение к туалету":      "🚽 Выводите щенка сразу после сна, еды и игры. Хвалите сразу после того, как он сделал дела в нужном месте.",
	"режим кормления":          "🍖 Кормите щенка в одно и то же время и убирайте миску через 15-20 минут, даже если корм остался.",
	"уход за шерстью":          "🪮 Расчёсывайте щенка несколько минут каждый день, чтобы он привык к процедуре спокойно.",
	"первые прогулки":          "🚶 Первые прогулки делайте короткими: 10-15 минут достаточно, чтобы щенок изучил мир и не переутомился.",
	"игры и развитие":          "🧩 Пять минут игры с поиском лакомства утомляют щенка не хуже долгой прогулки.",
	"базовые команды":          "🎓 Тренируйте команды короткими сессиями по 3-5 минут и заканчивайте на успешном повторе.",
	"уход за зубами и когтями": "🦷 Приучайте щенка к осмотру лап и пасти с раннего возраста, сопровождая его лакомством.",
}

const genericFallbackTip = "🐶 Проводите с щенком время каждый день: внимание и спокойная рутина важнее любых игрушек."

// FallbackTip returns a static tip used when the model is unavailable
func FallbackTip(topic string) string {
	if tip, ok := fallbackTips[topic]; ok {
		return tip
	}
	return genericFallbackTip
}
