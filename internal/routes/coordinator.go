package routes

import "github.com/pribylovaa/go-content-portal/internal/models"

// Decision — результат авторизации маршрута: либо рендер страницы,
// либо молчаливый редирект. Третьего исхода нет: координатор никогда
// не возвращает ошибку, отсутствующая сессия — нормальный вход.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Coordinator принимает решение о доступе к маршруту по его политике
// и текущему пользователю сессии. Решение чистое: без сети, без записи
// в хранилища; повторное вычисление при неизменной сессии даёт
// идентичный результат.
type Coordinator struct {
	LoginPath     string
	HomePath      string
	AdminHomePath string
}

// NewCoordinator возвращает координатор со стандартными целями редиректов.
func NewCoordinator() Coordinator {
	return Coordinator{
		LoginPath:     Login,
		HomePath:      Home,
		AdminHomePath: AdminPosts,
	}
}

// Decide вычисляет решение для политики p при текущем пользователе user
// (nil — аноним). Для RequireAdmin порядок проверок значим: «не вошёл»
// проверяется раньше «не та роль», поэтому аноним на админском маршруте
// получает редирект на логин, а не на домашнюю страницу.
func (c Coordinator) Decide(p AccessPolicy, user *models.User) Decision {
	switch p {
	case Open:
		return Decision{Allow: true}

	case RedirectIfAuthenticated:
		if user == nil {
			return Decision{Allow: true}
		}
		if user.IsAdmin() {
			return Decision{RedirectTo: c.AdminHomePath}
		}
		return Decision{RedirectTo: c.HomePath}

	case RequireAuthenticated:
		if user == nil {
			return Decision{RedirectTo: c.LoginPath}
		}
		return Decision{Allow: true}

	case RequireAdmin:
		if user == nil {
			return Decision{RedirectTo: c.LoginPath}
		}
		if !user.IsAdmin() {
			return Decision{RedirectTo: c.HomePath}
		}
		return Decision{Allow: true}

	default:
		// Закрытый enum; сюда попадает только повреждённая таблица,
		// которую Validate отверг бы на старте. Fail-closed.
		return Decision{RedirectTo: c.LoginPath}
	}
}
