// Package items — ref.go: структурная идентичность предмета.
// В БД предмет хранится строкой исторического формата "Base(RARITY)[TAG]".
// Парсинг и сериализация живут ТОЛЬКО здесь, на границе хранилища;
// бизнес-логика работает со структурой Ref и никогда не матчит строки.
package items

import (
	"fmt"
	"regexp"
)

// Косметические теги. Тег максимум один: ультра-вариант (alG) или шайни.
const (
	TagNone  = ""
	TagShiny = "SHINY"
	TagUltra = "alG"
)

// Ref — структурная ссылка на предмет.
type Ref struct {
	Base   string // Имя фумо без декораций: "Reimu", "Cirno", ...
	Rarity Rarity // Класс редкости
	Tag    string // TagNone, TagShiny или TagUltra
}

// refPattern разбирает "Base(RARITY)" и "Base(RARITY)[TAG]".
var refPattern = regexp.MustCompile(`^(.+?)\(([^()\[\]]+)\)(?:\[([^\[\]]+)\])?$`)

// ParseRef разбирает строковый ключ хранилища в Ref.
func ParseRef(s string) (Ref, error) {
	m := refPattern.FindStringSubmatch(s)
	if m == nil {
		return Ref{}, fmt.Errorf("некорректный ключ предмета %q", s)
	}

	r := Ref{Base: m[1], Rarity: Rarity(m[2]), Tag: m[3]}

	if _, ok := Table[r.Rarity]; !ok {
		return Ref{}, fmt.Errorf("неизвестная редкость %q в ключе %q", m[2], s)
	}
	switch r.Tag {
	case TagNone, TagShiny, TagUltra:
	default:
		return Ref{}, fmt.Errorf("неизвестный тег %q в ключе %q", m[3], s)
	}
	return r, nil
}

// String сериализует Ref обратно в ключ хранилища.
func (r Ref) String() string {
	if r.Tag == TagNone {
		return fmt.Sprintf("%s(%s)", r.Base, r.Rarity)
	}
	return fmt.Sprintf("%s(%s)[%s]", r.Base, r.Rarity, r.Tag)
}

// Display возвращает человекочитаемое имя для сообщений бота.
func (r Ref) Display() string {
	switch r.Tag {
	case TagShiny:
		return fmt.Sprintf("✨ %s (%s)", r.Base, r.Rarity)
	case TagUltra:
		return fmt.Sprintf("🌟 %s (%s, ультра)", r.Base, r.Rarity)
	}
	return fmt.Sprintf("%s (%s)", r.Base, r.Rarity)
}
