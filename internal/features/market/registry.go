// registry.go — хранилище персональных каталогов в памяти.
// Каталоги живут час и не переживают перезапуск: после рестарта
// пользователь просто получает свежую генерацию.
package market

import (
	"sync"
	"time"
)

// userState — каталоги и метки «последний раз видел» одного пользователя.
type userState struct {
	market *Catalog
	shop   *Catalog

	// Метки для гарантийных подмен, раздельно по видам каталога.
	marketElevated     time.Time
	marketVeryElevated time.Time
	shopElevated       time.Time
	shopVeryElevated   time.Time
}

// Registry держит каталоги всех пользователей под одним мьютексом.
// Вся работа с конкретным каталогом и так сериализуется пер-юзерным
// локом сервиса, мьютекс здесь защищает только саму карту.
type Registry struct {
	mu    sync.Mutex
	users map[int64]*userState
}

func NewRegistry() *Registry {
	return &Registry{users: make(map[int64]*userState)}
}

// state возвращает состояние пользователя, создавая его при первом
// обращении. Метки «видел» инициализируются текущим моментом, чтобы
// новый пользователь не получал обе гарантии первым же каталогом.
func (r *Registry) state(userID int64, now time.Time) *userState {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.users[userID]
	if !ok {
		st = &userState{
			marketElevated:     now,
			marketVeryElevated: now,
			shopElevated:       now,
			shopVeryElevated:   now,
		}
		r.users[userID] = st
	}
	return st
}

// Get возвращает каталог пользователя (nil, если ещё не генерировался).
func (r *Registry) Get(userID int64, kind Kind, now time.Time) *Catalog {
	st := r.state(userID, now)
	r.mu.Lock()
	defer r.mu.Unlock()
	if kind == KindShop {
		return st.shop
	}
	return st.market
}

// Put сохраняет свежий каталог и сдвигает метки гарантий, если в нём
// есть позиции соответствующих тиров.
func (r *Registry) Put(c *Catalog) {
	st := r.state(c.UserID, c.GeneratedAt)
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.Kind == KindShop {
		st.shop = c
		if HasElevated(c) {
			st.shopElevated = c.GeneratedAt
		}
		if HasVeryElevated(c) {
			st.shopVeryElevated = c.GeneratedAt
		}
		return
	}
	st.market = c
	if HasElevated(c) {
		st.marketElevated = c.GeneratedAt
	}
	if HasVeryElevated(c) {
		st.marketVeryElevated = c.GeneratedAt
	}
}

// LastSeen возвращает метки гарантий для генерации каталога вида kind.
func (r *Registry) LastSeen(userID int64, kind Kind, now time.Time) (elevated, veryElevated time.Time) {
	st := r.state(userID, now)
	r.mu.Lock()
	defer r.mu.Unlock()
	if kind == KindShop {
		return st.shopElevated, st.shopVeryElevated
	}
	return st.marketElevated, st.marketVeryElevated
}

// Users возвращает всех пользователей с зарегистрированными каталогами.
// Нужен почасовой перегенерации по крону.
func (r *Registry) Users() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int64, 0, len(r.users))
	for id := range r.users {
		ids = append(ids, id)
	}
	return ids
}
