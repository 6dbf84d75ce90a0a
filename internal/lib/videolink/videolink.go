// Package videolink проверяет, что ссылка на видео урока ведёт только
// на разрешённый видеохостинг (YouTube) и использует https.
// Проверка чисто синтаксическая, без обращения к сети.
package videolink

import (
	"errors"
	"net/url"
	"strings"
)

// Ошибки валидации ссылки. Все относятся к категории ошибок валидации входных данных.
var (
	// ErrMalformed — строку не удалось разобрать как URL.
	ErrMalformed = errors.New("video link is not a valid url")
	// ErrInsecure — ссылка не использует схему https.
	ErrInsecure = errors.New("video link must use https")
	// ErrForeignHost — ссылка ведёт не на разрешённый видеохостинг.
	ErrForeignHost = errors.New("video link must point to an allowed video host")
)

// allowedHosts — точный список разрешённых доменов видеохостинга.
// Дополнительно допускается любой поддомен rootDomain.
var allowedHosts = []string{
	"youtube.com",
	"youtu.be",
	"m.youtube.com",
	"music.youtube.com",
	"gaming.youtube.com",
}

const rootDomain = ".youtube.com"

// Validate проверяет ссылку на видео. Пустая строка (или строка из пробелов)
// допустима и означает "ссылки пока нет".
func Validate(link string) error {
	if strings.TrimSpace(link) == "" {
		return nil
	}

	u, err := url.Parse(link)
	if err != nil {
		return ErrMalformed
	}
	if u.Host == "" {
		// "youtube.com/watch" без схемы разбирается в path, хостом не является.
		return ErrMalformed
	}

	if u.Scheme != "https" {
		return ErrInsecure
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")

	for _, allowed := range allowedHosts {
		if host == allowed {
			return nil
		}
	}
	if strings.HasSuffix(host, rootDomain) {
		return nil
	}
	return ErrForeignHost
}
