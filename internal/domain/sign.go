package domain

import (
	"fmt"
	"strings"
)

type Sign string

const (
	SignCapricorn   Sign = "capricorn"
	SignAquarius    Sign = "aquarius"
	SignPisces      Sign = "pisces"
	SignAries       Sign = "aries"
	SignTaurus      Sign = "taurus"
	SignGemini      Sign = "gemini"
	SignCancer      Sign = "cancer"
	SignLeo         Sign = "leo"
	SignVirgo       Sign = "virgo"
	SignLibra       Sign = "libra"
	SignScorpio     Sign = "scorpio"
	SignSagittarius Sign = "sagittarius"
)

// Signs все знаки в календарном порядке, начиная с козерога
var Signs = []Sign{
	SignCapricorn,
	SignAquarius,
	SignPisces,
	SignAries,
	SignTaurus,
	SignGemini,
	SignCancer,
	SignLeo,
	SignVirgo,
	SignLibra,
	SignScorpio,
	SignSagittarius,
}

func (s Sign) IsValid() bool {
	for _, sign := range Signs {
		if s == sign {
			return true
		}
	}
	return false
}

func (s Sign) String() string {
	return string(s)
}

// ParseSign сопоставляет строку со знаком без учёта регистра
func ParseSign(raw string) (Sign, error) {
	sign := Sign(strings.ToLower(strings.TrimSpace(raw)))
	if !sign.IsValid() {
		return "", fmt.Errorf("%q: %w", raw, ErrUnknownSign)
	}
	return sign, nil
}
