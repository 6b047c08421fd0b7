package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"gazi-tiles/internal/model"
	"gazi-tiles/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fakeUsers struct {
	users map[string]*model.User
}

func (f fakeUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f fakeUsers) Create(context.Context, *model.User) error { return errors.New("not implemented") }
func (f fakeUsers) Update(context.Context, *model.User) error { return errors.New("not implemented") }
func (f fakeUsers) FindAll(context.Context) ([]model.User, error) { return nil, nil }

func newUser(email, role string, active bool) *model.User {
	u := &model.User{Email: email, Name: "Test", Role: role, IsActive: active}
	u.ID = uuid.New()
	return u
}

func newTestApp(signer *jwt.Signer) *fiber.App {
	users := fakeUsers{users: map[string]*model.User{
		"admin@gazi.test": newUser("admin@gazi.test", model.RoleAdmin, true),
		"sales@gazi.test": newUser("sales@gazi.test", model.RoleSalesman, true),
		"gone@gazi.test":  newUser("gone@gazi.test", model.RoleAdmin, false),
	}}

	app := fiber.New()
	app.Get("/any", RequireAuth(signer, users), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(LocalUserRole).(string))
	})
	app.Get("/admin", RequireAuth(signer, users), RequireRole(model.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(204)
	})
	return app
}

func TestRequireAuth(t *testing.T) {
	signer := jwt.NewSigner(testSecret, "gazi-tiles", time.Hour)
	app := newTestApp(signer)

	token := func(email string) string {
		tok, err := signer.GenerateToken("sub", email, "Test", model.RoleAdmin)
		if err != nil {
			t.Fatalf("GenerateToken: %v", err)
		}
		return "Bearer " + tok
	}

	cases := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"no header", "/any", "", 401},
		{"wrong scheme", "/any", "Basic abc", 401},
		{"garbage token", "/any", "Bearer nope", 401},
		{"unknown user", "/any", token("who@gazi.test"), 401},
		{"disabled user", "/any", token("gone@gazi.test"), 403},
		{"salesman ok", "/any", token("sales@gazi.test"), 200},
		{"salesman not admin", "/admin", token("sales@gazi.test"), 403},
		{"admin ok", "/admin", token("admin@gazi.test"), 204},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != tc.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.want)
			}
		})
	}
}

func TestRequireRoleWithoutAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/", RequireRole(model.RoleAdmin), func(c *fiber.Ctx) error { return c.SendStatus(204) })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 403 {
		t.Fatalf("status = %d, want 403", resp.StatusCode)
	}
}
