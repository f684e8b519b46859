package repository

import "strings"

// likePattern escapes LIKE metacharacters and wraps term for a contains match
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}
