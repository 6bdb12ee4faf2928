package service

import (
	"context"
	"strings"

	"asistencia-bot/internal/auth"
	"asistencia-bot/internal/gateway"
	"asistencia-bot/internal/models"
	"asistencia-bot/internal/workspace"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

const msgLoginFailed = "Usuario o PIN incorrectos"

type loginForm struct {
	Usuario string `validate:"required"`
	PIN     string `validate:"required,len=4,number"`
}

var loginMessages = map[string]string{
	"Usuario": "Por favor ingresa tu usuario",
	"PIN":     "El PIN debe ser de 4 dígitos numéricos",
}

type AuthService struct {
	validate *validator.Validate
	logger   *logrus.Entry
}

func NewAuthService() *AuthService {
	return &AuthService{
		validate: newValidator(),
		logger:   logrus.WithField("component", "auth"),
	}
}

// Login проверяет форму, вызывает login и сохраняет сессию.
// Возвращает пользователя и переход на панель его роли
func (s *AuthService) Login(ctx context.Context, ws *workspace.Workspace, usuario, pin string) (*models.Empleado, auth.Navigation, error) {
	form := loginForm{
		Usuario: strings.TrimSpace(usuario),
		PIN:     strings.TrimSpace(pin),
	}
	if err := validate(s.validate, form, loginMessages, loginMessages["PIN"]); err != nil {
		return nil, auth.Navigation{}, err
	}

	res := ws.Gateway.Call(ctx, "login", gateway.Params{
		"usuario": form.Usuario,
		"pin":     form.PIN,
	})
	if !res.Success || !res.Has("empleado") {
		return nil, auth.Navigation{}, backendError(res, msgLoginFailed)
	}

	var empleado models.Empleado
	if err := res.Decode("empleado", &empleado); err != nil {
		s.logger.WithError(err).Error("failed to decode login response")
		return nil, auth.Navigation{}, &BackendError{Message: gateway.MsgBadResponse}
	}

	ws.Cache.Invalidate()
	ws.Sessions.Save(empleado)
	empleado.EmpresaID = ws.Tenant.ID
	empleado.EmpresaNombre = ws.Tenant.Nombre

	s.logger.WithFields(logrus.Fields{
		"chat_id": ws.ChatID,
		"empresa": ws.Tenant.ID,
		"usuario": empleado.Usuario,
		"rol":     empleado.Rol,
	}).Info("login")

	return &empleado, ws.Navigate(landingPage(empleado.Rol)), nil
}

// landingPage неизвестная роль попадает на панель сотрудника
func landingPage(rol models.Rol) auth.Page {
	if p := auth.DashboardFor(rol); p != auth.PageLogin {
		return p
	}
	return auth.PageDashboard
}

// Resume при открытии страницы входа перенаправляет на панель, если сессия уже есть
func (s *AuthService) Resume(ws *workspace.Workspace) (*models.Empleado, auth.Navigation, bool) {
	current := ws.Current()
	if !current.HasSession() {
		return nil, ws.Navigate(auth.PageLogin), false
	}
	return current, ws.Navigate(landingPage(current.Rol)), true
}

// Enter открывает страницу через единую проверку ролей.
// При отказе рабочее пространство переходит на страницу редиректа
func (s *AuthService) Enter(ws *workspace.Workspace, page auth.Page) (*models.Empleado, auth.Navigation, bool) {
	current := ws.Current()
	decision := auth.Guard(auth.RequiredRoles(page), current)
	if !decision.Allow {
		return current, ws.Navigate(decision.Redirect), false
	}
	return current, ws.Navigate(page), true
}

// Authorize проверяет роль перед действием, не меняя страницу
func (s *AuthService) Authorize(ws *workspace.Workspace, roles []models.Rol) (*models.Empleado, error) {
	current := ws.Current()
	decision := auth.Guard(roles, current)
	switch {
	case decision.Allow:
		return current, nil
	case decision.Redirect == auth.PageLogin:
		return nil, ErrNoSession
	}
	return current, ErrForbidden
}

func (s *AuthService) Logout(ws *workspace.Workspace) auth.Navigation {
	ws.Sessions.Clear()
	ws.Cache.Invalidate()
	return ws.Navigate(auth.PageLogin)
}
