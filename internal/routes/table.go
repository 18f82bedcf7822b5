package routes

import "fmt"

// Пути страниц портала. Формат плейсхолдеров — chi ("{name}").
const (
	Home      = "/"
	Login     = "/login"
	Register  = "/register"
	Introduce = "/introduce"
	News      = "/news"
	Products  = "/products"
	Services  = "/services"
	Tutorials = "/tutorials"
	Contact   = "/contact"

	MyProfile  = "/my-profile"
	CreatePost = "/create-post"
	MyPosts    = "/my-posts"
	PostDetail = "/post-detail/{post_slug}"
	EditPost   = "/edit-post/{post_slug}"

	AdminPosts         = "/admin/posts"
	AdminUsers         = "/admin/users"
	AdminContacts      = "/admin/contacts"
	AdminContactDetail = "/admin/contact-detail/{contact_id}"
)

// Route — декларативное описание маршрута: путь, имя страницы и политика.
// Таблица строится один раз на старте и далее неизменна.
// Children резолвятся тем же координатором рекурсивно, каждый — против
// актуального состояния сессии.
type Route struct {
	Path     string
	Name     string
	Policy   AccessPolicy
	Children []Route
}

// Table возвращает статическую таблицу маршрутов портала.
func Table() []Route {
	return []Route{
		{Path: Home, Name: "home", Policy: Open},
		{Path: Login, Name: "login", Policy: RedirectIfAuthenticated},
		{Path: Register, Name: "register", Policy: RedirectIfAuthenticated},
		{Path: Introduce, Name: "introduce", Policy: Open},
		{Path: News, Name: "news", Policy: Open},
		{Path: Products, Name: "products", Policy: Open},
		{Path: Services, Name: "services", Policy: Open},
		{Path: Tutorials, Name: "tutorials", Policy: Open},
		{Path: Contact, Name: "contact", Policy: Open},
		{Path: PostDetail, Name: "post_detail", Policy: Open},

		{Path: MyProfile, Name: "my_profile", Policy: RequireAuthenticated},
		{Path: CreatePost, Name: "create_post", Policy: RequireAuthenticated},
		{Path: MyPosts, Name: "my_posts", Policy: RequireAuthenticated},
		{Path: EditPost, Name: "edit_post", Policy: RequireAuthenticated},

		{Path: AdminPosts, Name: "admin_posts", Policy: RequireAdmin},
		{Path: AdminUsers, Name: "admin_users", Policy: RequireAdmin},
		{Path: AdminContacts, Name: "admin_contacts", Policy: RequireAdmin},
		{Path: AdminContactDetail, Name: "admin_contact_detail", Policy: RequireAdmin},
	}
}

// Validate проверяет таблицу (включая детей): непустые путь/имя,
// известная политика, отсутствие дублей путей.
func Validate(table []Route) error {
	seen := make(map[string]struct{})

	var walk func(rs []Route) error
	walk = func(rs []Route) error {
		for _, r := range rs {
			if r.Path == "" || r.Name == "" {
				return fmt.Errorf("route %q/%q: empty path or name", r.Path, r.Name)
			}

			if r.Policy < Open || r.Policy > RequireAdmin {
				return fmt.Errorf("route %q: unknown access policy %d", r.Path, r.Policy)
			}

			if _, ok := seen[r.Path]; ok {
				return fmt.Errorf("route %q: duplicate path", r.Path)
			}
			seen[r.Path] = struct{}{}

			if err := walk(r.Children); err != nil {
				return err
			}
		}

		return nil
	}

	return walk(table)
}

// Walk обходит таблицу рекурсивно в порядке объявления, вызывая visit
// для каждого маршрута, включая вложенные.
func Walk(table []Route, visit func(Route)) {
	for _, r := range table {
		visit(r)
		Walk(r.Children, visit)
	}
}
