// Серверные модели пользователя и проекта
package models

// User — пользователь. ID назначает БД, после создания не меняется.
//
// Class хранится как число (в исходных данных встречаются дробные значения, например 10.5).
type User struct {
	ID         int64   `json:"id"`
	Nickname   string  `json:"nickname"`
	Fullname   string  `json:"fullname"`
	Class      float64 `json:"class"`
	Speciality *string `json:"speciality"`
	Email      string  `json:"email"`
}
