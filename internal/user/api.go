package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"

	"github.com/GersonESantos/EsqJSCRUDProjeto/internal/api"
	"github.com/GersonESantos/EsqJSCRUDProjeto/internal/page"
	"github.com/GersonESantos/EsqJSCRUDProjeto/internal/timeutil"
	"github.com/GersonESantos/EsqJSCRUDProjeto/swaggers"
)

const paramID = "id"

type Server struct {
	basePath       string
	service        Service
	allowedOrigins []string
}

func NewServer(basePath string, service Service, allowedOrigins []string) Server {
	return Server{
		basePath:       basePath,
		service:        service,
		allowedOrigins: allowedOrigins,
	}
}

func (s Server) RegisterRoutes(mux *http.ServeMux) {
	schema := s.service.Schema()
	spec, err := swaggers.Users(schema.Resource, schema.RequiresPassword())
	if err != nil {
		panic(err)
	}

	userMux := http.NewServeMux()
	userMux.Handle("GET "+schema.Resource, s.usersHandler())
	userMux.Handle("POST "+schema.Resource, s.createUserHandler())
	userMux.Handle("GET "+schema.Resource+"/{id}", s.userHandler())
	userMux.Handle("PUT "+schema.Resource+"/{id}", s.updateUserHandler())
	userMux.Handle("DELETE "+schema.Resource+"/{id}", s.deleteUserHandler())

	var handler http.Handler = userMux
	handler = api.SwaggerMiddleware(spec)(handler)
	handler = api.CORSMiddleware(s.allowedOrigins)(handler)
	handler = http.StripPrefix(s.basePath, handler)

	mux.Handle(s.basePath+schema.Resource, handler)
	mux.Handle(s.basePath+schema.Resource+"/", handler)
}

func (s Server) usersHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pag, err := paginationFromQuery(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		users, err := s.service.Users(r.Context(), pag)
		if err != nil {
			writeError(w, r, err)
			return
		}

		if pag != nil {
			w.Header().Set(api.HeaderTotalCount, strconv.Itoa(users.TotalRecords))
		}
		api.WriteJSON(w, toUsersResponse(users), http.StatusOK)
	})
}

func (s Server) userHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		u, err := s.service.User(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}

		api.WriteJSON(w, toUserResponse(u), http.StatusOK)
	})
}

func (s Server) createUserHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req userRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, api.NewError("INVALID_REQUEST", http.StatusBadRequest, "could not parse body"))
			return
		}

		in, err := req.toInput()
		if err != nil {
			writeError(w, r, err)
			return
		}

		u, err := s.service.Create(r.Context(), in)
		if err != nil {
			writeError(w, r, err)
			return
		}

		api.WriteJSON(w, toUserResponse(u), http.StatusCreated)
	})
}

func (s Server) updateUserHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		var req userRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, api.NewError("INVALID_REQUEST", http.StatusBadRequest, "could not parse body"))
			return
		}

		in, err := req.toInput()
		if err != nil {
			writeError(w, r, err)
			return
		}

		if err := s.service.Update(r.Context(), id, in); err != nil {
			writeError(w, r, err)
			return
		}

		api.WriteJSON(w, api.MessageResponse{Message: "user updated"}, http.StatusOK)
	})
}

func (s Server) deleteUserHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		if err := s.service.Delete(r.Context(), id); err != nil {
			writeError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	})
}

func pathID(r *http.Request) (int64, error) {
	var id int64
	if err := runtime.BindStyledParameterWithOptions("simple", paramID, r.PathValue(paramID), &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	}); err != nil {
		return 0, api.NewError("INVALID_REQUEST", http.StatusBadRequest, "invalid user id")
	}
	if id <= 0 {
		return 0, api.NewError("INVALID_REQUEST", http.StatusBadRequest, "invalid user id")
	}
	return id, nil
}

// paginationFromQuery returns nil when neither page nor page-size is informed,
// meaning every record is listed.
func paginationFromQuery(r *http.Request) (*page.Pagination, error) {
	var pageNumber, pageSize *int32
	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &pageNumber); err != nil {
		return nil, api.NewError("INVALID_REQUEST", http.StatusBadRequest, "invalid page")
	}
	if err := runtime.BindQueryParameter("form", true, false, "page-size", r.URL.Query(), &pageSize); err != nil {
		return nil, api.NewError("INVALID_REQUEST", http.StatusBadRequest, "invalid page-size")
	}

	if pageNumber == nil && pageSize == nil {
		return nil, nil
	}
	pag := page.NewPagination(pageNumber, pageSize)
	return &pag, nil
}

type userRequest struct {
	Name     *string `json:"nome"`
	Email    *string `json:"email"`
	Password *string `json:"senha"`
	Phone    *string `json:"telefone"`
	// Fone is accepted as an alias of telefone.
	Fone      *string `json:"fone"`
	BirthDate *string `json:"data_nascimento"`
}

func (req userRequest) toInput() (Input, error) {
	in := Input{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	}
	if in.Phone == nil {
		in.Phone = req.Fone
	}

	if req.BirthDate != nil && strings.TrimSpace(*req.BirthDate) != "" {
		d, err := parseBirthDate(strings.TrimSpace(*req.BirthDate))
		if err != nil {
			return Input{}, api.NewError("INVALID_REQUEST", http.StatusBadRequest, "data_nascimento must be a date in the format YYYY-MM-DD")
		}
		in.BirthDate = &d
	}
	return in, nil
}

func parseBirthDate(s string) (timeutil.Date, error) {
	if d, err := timeutil.ParseDate(s); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return timeutil.Date{}, err
	}
	return timeutil.NewDate(t), nil
}

type userResponse struct {
	ID        int64             `json:"id"`
	Name      string            `json:"nome"`
	Email     string            `json:"email"`
	Phone     *string           `json:"telefone,omitempty"`
	BirthDate *timeutil.Date    `json:"data_nascimento,omitempty"`
	CreatedAt timeutil.DateTime `json:"created_at"`
}

func toUserResponse(u *User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		BirthDate: u.BirthDate,
		CreatedAt: u.CreatedAt,
	}
}

func toUsersResponse(users page.Page[*User]) []userResponse {
	resp := make([]userResponse, 0, len(users.Records))
	for _, u := range users.Records {
		resp = append(resp, toUserResponse(u))
	}
	return resp
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		api.WriteError(w, r, api.NewError("INVALID_REQUEST", http.StatusBadRequest, err.Error()))
	case errors.Is(err, ErrNotFound):
		api.WriteError(w, r, api.NewError("USER_NOT_FOUND", http.StatusNotFound, err.Error()))
	case errors.Is(err, ErrAlreadyExists):
		api.WriteError(w, r, api.NewError("USER_ALREADY_EXISTS", http.StatusConflict, err.Error()))
	default:
		api.WriteError(w, r, err)
	}
}
