package crowding

// Level - дискретный уровень загруженности салона
type Level string

const (
	LevelLow         Level = "LOW"
	LevelMedium      Level = "MEDIUM"
	LevelHigh        Level = "HIGH"
	LevelOvercrowded Level = "OVERCROWDED"
)

// Пороги классификации (правые границы интервалов, настраиваются в тестах)
var (
	ThresholdMedium      = 0.5
	ThresholdHigh        = 0.8
	ThresholdOvercrowded = 1.0
)

// Classify сопоставляет коэффициент заполнения уровню.
// Тотальная функция: принимает любое конечное число, включая значения > 1.
func Classify(occupancyRatio float64) Level {
	switch {
	case occupancyRatio < ThresholdMedium:
		return LevelLow
	case occupancyRatio < ThresholdHigh:
		return LevelMedium
	case occupancyRatio < ThresholdOvercrowded:
		return LevelHigh
	default:
		return LevelOvercrowded
	}
}
