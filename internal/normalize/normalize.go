// Package normalize реализует конвейер приведения и валидации объявлений.
//
// Вход — нетипизированная карта полей (результат декодирования JSON-тела
// запроса либо слияния patch с существующей записью), выход — готовая к
// сохранению models.Listing. Конвейер чистый: результат зависит только от
// аргументов и переданных часов, поэтому обе реализации хранилища прогоняют
// записи через один и тот же код.
package normalize

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/LiteBots/zacharska/internal/models"
)

// Пороговые значения конвейера.
const (
	// MaxImages — верхняя граница списка изображений; лишние элементы
	// отбрасываются без ошибки.
	MaxImages = 15

	minTitleLen       = 3
	minCityLen        = 2
	minDescriptionLen = 10
)

// ValidationError — отклонение входных данных конвейером валидации.
// Reason — готовое человекочитаемое сообщение для HTTP-ответа; тип
// прокидывается по цепочке ошибок вплоть до транспортного слоя.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// Listing приводит карту полей к доменной модели и валидирует результат.
//
// Приведение (порядок проверок фиксирован, см. validate):
//   - строковые поля: ложные значения (nil, false, 0, NaN, "") схлопываются
//     в пустую строку, затем TrimSpace;
//   - числовые поля: приведение без округления, непарсибельное значение — NaN;
//   - featured: истинность значения;
//   - floor: отсутствие и пустая строка — null, всё прочее сохраняется;
//   - images: не-массив — пустой список, затем усечение до MaxImages и
//     приведение элементов к строкам;
//   - image: явное значение, иначе первый элемент усечённого images, иначе "".
//
// В режиме создания (isUpdate=false) конвейер выпускает идентификатор
// (клиентский — только непустая строка, иначе новый UUID) и метки времени:
// createdAt — переданное конечное положительное число либо now,
// updatedAt — всегда now. В режиме обновления идентификатор и createdAt
// читаются из уже слитой карты (см. Merge) и заново не выпускаются;
// updatedAt переустанавливается в now.
func Listing(raw map[string]any, isUpdate bool, now time.Time) (models.Listing, error) {
	if raw == nil {
		raw = map[string]any{}
	}

	nowMS := now.UnixMilli()

	listing := models.Listing{
		Title:       strings.TrimSpace(coerceString(raw["title"])),
		Type:        strings.TrimSpace(coerceString(raw["type"])),
		City:        strings.TrimSpace(coerceString(raw["city"])),
		Price:       coerceNumber(raw["price"]),
		Area:        coerceNumber(raw["area"]),
		Rooms:       coerceNumber(raw["rooms"]),
		Description: strings.TrimSpace(coerceString(raw["description"])),
		Featured:    truthy(raw["featured"]),
		Rent:        strings.TrimSpace(coerceString(raw["rent"])),
		Market:      strings.TrimSpace(coerceString(raw["market"])),
		Finish:      strings.TrimSpace(coerceString(raw["finish"])),
		Heating:     strings.TrimSpace(coerceString(raw["heating"])),
		Ownership:   strings.TrimSpace(coerceString(raw["ownership"])),
		Floor:       coerceFloor(raw["floor"]),
		Images:      coerceImages(raw["images"]),
	}

	listing.Image = strings.TrimSpace(coerceString(raw["image"]))
	if listing.Image == "" && len(listing.Images) > 0 {
		listing.Image = listing.Images[0]
	}

	if isUpdate {
		listing.ID = strings.TrimSpace(coerceString(raw["id"]))
		if ts := coerceNumber(raw["createdAt"]); isFinitePositive(ts) {
			listing.CreatedAt = int64(ts)
		}
	} else {
		listing.ID = suppliedID(raw["id"])
		if listing.ID == "" {
			listing.ID = uuid.NewString()
		}

		listing.CreatedAt = nowMS
		if ts := coerceNumber(raw["createdAt"]); isFinitePositive(ts) {
			listing.CreatedAt = int64(ts)
		}
	}
	listing.UpdatedAt = nowMS

	if err := validate(listing); err != nil {
		return models.Listing{}, err
	}

	return listing, nil
}

// Merge накладывает patch на текущую запись и возвращает карту полей для
// повторной нормализации; ключи соответствуют внешнему JSON-формату.
// Идентификатор и createdAt закрепляются из current после наложения patch —
// patch не может изменить идентичность и время создания записи.
func Merge(current models.Listing, patch map[string]any) map[string]any {
	images := make([]string, len(current.Images))
	copy(images, current.Images)

	merged := map[string]any{
		"id":          current.ID,
		"createdAt":   current.CreatedAt,
		"updatedAt":   current.UpdatedAt,
		"title":       current.Title,
		"type":        current.Type,
		"city":        current.City,
		"price":       current.Price,
		"area":        current.Area,
		"rooms":       current.Rooms,
		"description": current.Description,
		"featured":    current.Featured,
		"rent":        current.Rent,
		"market":      current.Market,
		"finish":      current.Finish,
		"heating":     current.Heating,
		"ownership":   current.Ownership,
		"floor":       current.Floor,
		"images":      images,
		"image":       current.Image,
	}

	for key, value := range patch {
		merged[key] = value
	}

	merged["id"] = current.ID
	merged["createdAt"] = current.CreatedAt

	return merged
}

// validate применяет проверки в фиксированном порядке; первая неудача
// прерывает конвейер, сообщение уходит клиенту без изменений.
func validate(listing models.Listing) error {
	switch {
	case utf8.RuneCountInString(listing.Title) < minTitleLen:
		return &ValidationError{Reason: "Title too short"}
	case utf8.RuneCountInString(listing.City) < minCityLen:
		return &ValidationError{Reason: "City too short"}
	case !isFinitePositive(listing.Price):
		return &ValidationError{Reason: "Invalid price"}
	case !isFinitePositive(listing.Area):
		return &ValidationError{Reason: "Invalid area"}
	case !isFinitePositive(listing.Rooms):
		return &ValidationError{Reason: "Invalid rooms"}
	case utf8.RuneCountInString(listing.Description) < minDescriptionLen:
		return &ValidationError{Reason: "Description too short"}
	case listing.Type == "":
		return &ValidationError{Reason: "Type required"}
	}

	return nil
}

// suppliedID принимает клиентский идентификатор только строкового типа;
// значение любого другого типа считается отсутствующим.
func suppliedID(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}

	return strings.TrimSpace(s)
}
