package httphandler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ericfisherdev/ghremote/internal/domain/model"
)

// parseFlags selects which parts of a request parse extracts.
type parseFlags uint8

const (
	withRepo parseFlags = 1 << iota
	withNumber
	withPage
)

// requestParams holds the identifying parameters common to facade endpoints.
type requestParams struct {
	owner  string
	repo   string
	number int
	page   model.Page
	props  *model.Properties
}

// parse extracts credentials and the parameters selected by flags. On failure
// it writes a 400 response and returns false.
func (h *Handler) parse(w http.ResponseWriter, r *http.Request, flags parseFlags) (requestParams, bool) {
	var req requestParams

	props, err := propertiesFromRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return req, false
	}
	req.props = props

	if flags&withRepo != 0 {
		req.owner = r.PathValue("owner")
		req.repo = r.PathValue("repo")
		if !isValidName(req.owner) || !isValidName(req.repo) {
			writeError(w, http.StatusBadRequest, "invalid repository name: expected owner/repo")
			return req, false
		}
	}

	if flags&withNumber != 0 {
		number, err := strconv.Atoi(r.PathValue("number"))
		if err != nil || number <= 0 {
			writeError(w, http.StatusBadRequest, "invalid issue or pull request number")
			return req, false
		}
		req.number = number
	}

	if flags&withPage != 0 {
		page, err := pageFromQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return req, false
		}
		req.page = page
	}

	return req, true
}

// propertiesFromRequest maps the Authorization header onto call properties:
// "token X" is a personal access token, "Bearer X" an OAuth token and HTTP
// basic auth a username/password pair. No header means anonymous access.
func propertiesFromRequest(r *http.Request) (*model.Properties, error) {
	if username, password, ok := r.BasicAuth(); ok {
		return &model.Properties{Credentials: &model.Credentials{
			Type:     model.CredentialBasic,
			Username: username,
			Password: password,
		}}, nil
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, nil
	}

	scheme, value, found := strings.Cut(header, " ")
	value = strings.TrimSpace(value)
	if !found || value == "" {
		return nil, errors.New("invalid authorization header")
	}

	var credType model.CredentialType
	switch strings.ToLower(scheme) {
	case "token":
		credType = model.CredentialToken
	case "bearer":
		credType = model.CredentialOAuth
	default:
		return nil, errors.New("unsupported authorization scheme: " + scheme)
	}

	return &model.Properties{Credentials: &model.Credentials{Type: credType, Token: value}}, nil
}

// pageFromQuery reads the page and per_page query parameters. Missing values
// are left at zero; non-numeric values are rejected.
func pageFromQuery(r *http.Request) (model.Page, error) {
	var page model.Page
	q := r.URL.Query()

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return page, errors.New("invalid page parameter")
		}
		page.Number = n
	}

	if v := q.Get("per_page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return page, errors.New("invalid per_page parameter")
		}
		page.Size = n
	}

	return page, nil
}

// isValidName reports whether s is a plausible owner, organization, user or
// repository name: non-empty and made of alphanumerics, hyphens, dots or underscores.
func isValidName(s string) bool {
	if s == "" {
		return false
	}
	for _, ch := range s {
		if !isValidNameChar(ch) {
			return false
		}
	}
	return true
}

// isValidNameChar returns true if the rune is allowed in an owner or repository name.
func isValidNameChar(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '-' || ch == '.' || ch == '_'
}
