// Package authz реализует политику доступа к контенту каталога.
//
// Роль модератора не хранится в пользователе, а выводится из членства в группе
// на момент запроса: middleware один раз собирает Principal и передаёт его
// в обработчики через контекст. Политика для курсов и уроков симметрична:
//
//   - анонимам запрещено всё;
//   - list/retrieve доступны любому аутентифицированному, но видимое множество
//     сужено: модераторы видят всё, остальные — только свои объекты;
//   - create разрешён только НЕ-модераторам, создатель становится владельцем;
//   - update/partial_update разрешены владельцу или модератору;
//   - destroy разрешён только владельцу, модераторам запрещён.
//
// Проверка выполняется двумя независимыми предикатами: CanSee (членство
// в видимом множестве) и Can (разрешённость действия). Обработчики
// компонуют их на границе: объект вне видимого множества отдаётся как
// not found, видимый, но запрещённый — как forbidden.
package authz

import "github.com/studingplace/learning-platform/internal/models"

// Action — действие над ресурсом каталога.
type Action string

// Таксономия действий.
const (
	ActionList          Action = "list"
	ActionRetrieve      Action = "retrieve"
	ActionCreate        Action = "create"
	ActionUpdate        Action = "update"
	ActionPartialUpdate Action = "partial_update"
	ActionDestroy       Action = "destroy"
)

// Principal — набор возможностей принципала, вычисленный один раз на запрос.
type Principal struct {
	UserID int64
	Email  string
	Groups []string
}

// Moderator сообщает, является ли принципал модератором,
// то есть состоит ли он в группе модераторов.
func (p Principal) Moderator() bool {
	for _, g := range p.Groups {
		if g == models.ModeratorsGroup {
			return true
		}
	}
	return false
}

// CanSee — предикат членства объекта в видимом множестве принципала.
// Модераторы видят все объекты, остальные — только собственные.
// Объекты без владельца (ownerID == nil) видны только модераторам.
func CanSee(p Principal, ownerID *int64) bool {
	if p.Moderator() {
		return true
	}
	return ownerID != nil && *ownerID == p.UserID
}

// CanCollection — предикат разрешённости действия на уровне коллекции,
// когда конкретного объекта ещё нет (list, create).
func CanCollection(p Principal, action Action) bool {
	switch action {
	case ActionList:
		return true
	case ActionCreate:
		// Модераторы сопровождают чужой контент, но не заводят свой.
		return !p.Moderator()
	default:
		return false
	}
}

// Can — предикат разрешённости действия над конкретным объектом.
// Вызывается только для объектов, уже прошедших CanSee.
func Can(p Principal, action Action, ownerID *int64) bool {
	owner := ownerID != nil && *ownerID == p.UserID
	switch action {
	case ActionRetrieve:
		return true
	case ActionUpdate, ActionPartialUpdate:
		return owner || p.Moderator()
	case ActionDestroy:
		// Удаление доступно только владельцу, модераторам — нет.
		return owner
	default:
		return false
	}
}
