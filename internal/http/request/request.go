// Package request содержит разбор общих параметров запросов агента.
package request

import (
	"net/http"
	"strconv"
)

// Force читает необязательный параметр force. Пустое значение: false.
func Force(r *http.Request) (bool, error) {
	raw := r.URL.Query().Get("force")
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}
