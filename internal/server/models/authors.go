package models

// Операции над списком авторов. Все функции возвращают новый слайс
// и не меняют входной; результат никогда не nil.

// ContainsAuthor проверяет членство id в списке.
func ContainsAuthor(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// NormalizeAuthors убирает дубли, оставляя первое вхождение.
func NormalizeAuthors(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// RemoveAuthor удаляет все вхождения id, порядок остальных сохраняется.
func RemoveAuthor(ids []int64, id int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// AddAuthor добавляет id в конец, если его ещё нет.
func AddAuthor(ids []int64, id int64) []int64 {
	out := make([]int64, 0, len(ids)+1)
	out = append(out, ids...)
	if ContainsAuthor(ids, id) {
		return out
	}
	return append(out, id)
}
