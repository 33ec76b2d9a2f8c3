// Package models содержит доменные сущности listings-сервиса.
package models

// Listing — внутренняя доменная модель объявления о недвижимости.
// Важно:
//   - ID — непрозрачный строковый идентификатор (UUID, если сервер генерирует сам);
//     неизменяем после создания. В MongoDB хранится как _id.
//   - CreatedAt/UpdatedAt — миллисекунды Unix-эпохи. CreatedAt фиксируется при
//     создании и далее не меняется; UpdatedAt переустанавливается при каждой записи.
//   - Price/Area/Rooms — числовые характеристики; нормализатор гарантирует
//     конечность и положительность (см. internal/normalize).
//   - Floor — произвольное значение либо null: пустая строка и отсутствие поля
//     схлопываются в null, всё остальное (включая 0) сохраняется как есть.
//   - Images — не более MaxImages строк; Image — обложка, по умолчанию Images[0].
//   - JSON-теги задают внешний формат (API и файловое хранилище), BSON-теги —
//     раскладку документа в MongoDB.
type Listing struct {
	ID          string   `json:"id" bson:"_id"`
	CreatedAt   int64    `json:"createdAt" bson:"created_at"`
	UpdatedAt   int64    `json:"updatedAt" bson:"updated_at"`
	Title       string   `json:"title" bson:"title"`
	Type        string   `json:"type" bson:"type"`
	City        string   `json:"city" bson:"city"`
	Price       float64  `json:"price" bson:"price"`
	Area        float64  `json:"area" bson:"area"`
	Rooms       float64  `json:"rooms" bson:"rooms"`
	Description string   `json:"description" bson:"description"`
	Featured    bool     `json:"featured" bson:"featured"`
	Rent        string   `json:"rent" bson:"rent"`
	Market      string   `json:"market" bson:"market"`
	Finish      string   `json:"finish" bson:"finish"`
	Heating     string   `json:"heating" bson:"heating"`
	Ownership   string   `json:"ownership" bson:"ownership"`
	Floor       any      `json:"floor" bson:"floor"`
	Images      []string `json:"images" bson:"images"`
	Image       string   `json:"image" bson:"image"`
}
