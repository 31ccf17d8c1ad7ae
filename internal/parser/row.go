package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RequiredColumns - обязательный набор колонок CSV; порядок колонок в файле
// не важен, лишние колонки игнорируются
var RequiredColumns = []string{"bus_id", "timestamp", "lat", "lon", "speed", "capacity", "weight"}

// Виды ошибок разбора строки
const (
	KindMissingValue = "missing_value"
	KindBadTimestamp = "bad_timestamp"
	KindBadField     = "bad_field"
)

// RowError - ошибка уровня одной строки, не фатальная для батча
type RowError struct {
	Kind    string
	Message string
}

func (e *RowError) Error() string {
	return e.Message
}

func badField(column, raw string) *RowError {
	return &RowError{Kind: KindBadField, Message: fmt.Sprintf("invalid %s value %q", column, raw)}
}

// Row - провалидированная типизированная строка телеметрии
type Row struct {
	BusID     string
	Timestamp time.Time
	Latitude  float64
	Longitude float64
	Speed     float64
	Capacity  int
	WeightKg  *float64

	// Опциональная привязка к остановке. StopID == "" означает,
	// что строка остановку не несет.
	StopID   string
	StopName string
	// Координаты присутствуют только парой, иначе обе nil
	StopLat *float64
	StopLon *float64
}

// ValidateHeader проверяет заголовок один раз на батч. Поля сравниваются
// после обрезки пробелов; нехватка любой обязательной колонки фатальна
// для всего файла.
func ValidateHeader(fields []string) error {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		seen[strings.TrimSpace(f)] = true
	}

	var missing []string
	for _, col := range RequiredColumns {
		if !seen[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required columns: %s (need: %s)",
			strings.Join(missing, ","), strings.Join(RequiredColumns, ","))
	}
	return nil
}

// ParseRow разбирает одну запись (имя колонки -> сырое значение) в Row
// или возвращает типизированную ошибку строки.
func ParseRow(record map[string]string) (*Row, *RowError) {
	row := &Row{}

	row.BusID = strings.TrimSpace(record["bus_id"])
	if row.BusID == "" {
		return nil, &RowError{Kind: KindMissingValue, Message: "empty bus_id"}
	}

	rawTS := strings.TrimSpace(record["timestamp"])
	if rawTS == "" {
		return nil, &RowError{Kind: KindMissingValue, Message: "empty timestamp"}
	}
	ts, err := parseTimestamp(rawTS)
	if err != nil {
		return nil, &RowError{Kind: KindBadTimestamp, Message: fmt.Sprintf("invalid timestamp %q", rawTS)}
	}
	row.Timestamp = ts

	if row.Latitude, err = strconv.ParseFloat(strings.TrimSpace(record["lat"]), 64); err != nil {
		return nil, badField("lat", record["lat"])
	}
	if row.Longitude, err = strconv.ParseFloat(strings.TrimSpace(record["lon"]), 64); err != nil {
		return nil, badField("lon", record["lon"])
	}
	if row.Speed, err = strconv.ParseFloat(strings.TrimSpace(record["speed"]), 64); err != nil {
		return nil, badField("speed", record["speed"])
	}

	// Вместимость принимается как float и усекается до целого
	capFloat, err := strconv.ParseFloat(strings.TrimSpace(record["capacity"]), 64)
	if err != nil {
		return nil, badField("capacity", record["capacity"])
	}
	row.Capacity = int(capFloat)

	if rawWeight := strings.TrimSpace(record["weight"]); rawWeight != "" {
		w, err := strconv.ParseFloat(rawWeight, 64)
		if err != nil {
			return nil, badField("weight", record["weight"])
		}
		row.WeightKg = &w
	}

	parseStopFields(record, row)
	return row, nil
}

func parseStopFields(record map[string]string, row *Row) {
	row.StopID = strings.TrimSpace(record["stop_id"])
	if row.StopID == "" {
		return
	}

	row.StopName = strings.TrimSpace(record["stop_name"])
	if row.StopName == "" {
		row.StopName = row.StopID
	}

	// Координаты обновляются только парой: одиночное или пустое значение
	// не должно затирать уже известные координаты остановки
	rawLat := strings.TrimSpace(record["stop_lat"])
	rawLon := strings.TrimSpace(record["stop_lon"])
	if rawLat == "" || rawLon == "" {
		return
	}
	lat, errLat := strconv.ParseFloat(rawLat, 64)
	lon, errLon := strconv.ParseFloat(rawLon, 64)
	if errLat != nil || errLon != nil {
		return
	}
	row.StopLat = &lat
	row.StopLon = &lon
}

// parseTimestamp принимает ISO-8601 (хвостовой Z = +00:00, без зоны = UTC),
// запасной вариант - unix-секунды
func parseTimestamp(s string) (time.Time, error) {
	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05Z07:00",
		"2006-01-02 15:04:05",
	}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}

	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		sec := int64(secs)
		nsec := int64((secs - float64(sec)) * 1e9)
		return time.Unix(sec, nsec).UTC(), nil
	}

	return time.Time{}, fmt.Errorf("unsupported timestamp format: %q", s)
}
