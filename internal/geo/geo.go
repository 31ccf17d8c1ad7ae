package geo

import "math"

// EarthRadiusMeters - радиус сферы для haversine (метры)
const EarthRadiusMeters = 6371000.0

// Distance считает расстояние большого круга между двумя точками (градусы -> метры).
// Координаты не валидируются: значения вне диапазона дают бессмысленный,
// но корректно посчитанный результат.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// SpeedToMPS переводит км/ч в м/с, отрицательная скорость обрезается до нуля
func SpeedToMPS(speedKmh float64) float64 {
	return math.Max(0, speedKmh) * 1000 / 3600
}
