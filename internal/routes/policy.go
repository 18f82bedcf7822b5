// routes описывает статическую таблицу маршрутов портала и правила
// авторизации доступа к ним.
package routes

import (
	"errors"
	"fmt"
)

// AccessPolicy — политика доступа маршрута; закрытый enum.
// У каждого маршрута ровно одна политика; дочерние маршруты несут
// собственную политику и не наследуют родительскую.
type AccessPolicy int8

const (
	// Open — страница доступна всем.
	Open AccessPolicy = iota
	// RedirectIfAuthenticated — страница не нужна вошедшему пользователю
	// (login/register): его уводит на домашнюю страницу его роли.
	RedirectIfAuthenticated
	// RequireAuthenticated — страница требует входа.
	RequireAuthenticated
	// RequireAdmin — страница доступна только администратору.
	RequireAdmin
)

func (p AccessPolicy) String() string {
	switch p {
	case RedirectIfAuthenticated:
		return "redirect_if_authenticated"
	case RequireAuthenticated:
		return "require_authenticated"
	case RequireAdmin:
		return "require_admin"
	default:
		return "open"
	}
}

// ErrConflictingFlags — на маршруте выставлено более одного legacy-флага.
var ErrConflictingFlags = errors.New("conflicting route access flags")

// PolicyFromFlags транслирует legacy-флаги (unnecessary/protected/onlyAdmin)
// в политику доступа. Флаги взаимоисключающие: комбинация из двух и более
// отклоняется, а не разрешается порядком вычисления.
func PolicyFromFlags(unnecessary, protected, onlyAdmin bool) (AccessPolicy, error) {
	set := 0
	for _, f := range []bool{unnecessary, protected, onlyAdmin} {
		if f {
			set++
		}
	}

	if set > 1 {
		return Open, fmt.Errorf("%w: unnecessary=%t protected=%t only_admin=%t",
			ErrConflictingFlags, unnecessary, protected, onlyAdmin)
	}

	switch {
	case unnecessary:
		return RedirectIfAuthenticated, nil
	case protected:
		return RequireAuthenticated, nil
	case onlyAdmin:
		return RequireAdmin, nil
	default:
		return Open, nil
	}
}
