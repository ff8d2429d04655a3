package repository

import "strings"

func sortColumn(requested string, allowed map[string]string, fallback string) string {
	if column, ok := allowed[requested]; ok {
		return column
	}
	return fallback
}

func sortOrder(requested, fallback string) string {
	order := strings.ToUpper(requested)
	if order != "ASC" && order != "DESC" {
		return fallback
	}
	return order
}

func pageBounds(page, size int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return size, (page - 1) * size
}
