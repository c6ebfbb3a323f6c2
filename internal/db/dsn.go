package db

import (
	"net/url"
	"slices"
	"strings"
)

// pgDSN is DATABASE_URL for postgres: either a URL, passed through, or a
// libpq key=value list.
type pgDSN struct {
	raw    string
	fields []string
	params map[string]string
}

var libpqKeys = []string{"host", "port", "user", "password", "dbname", "sslmode"}

func parseDSN(raw string) pgDSN {
	d := pgDSN{raw: strings.Trim(strings.TrimSpace(raw), `"'`)}
	lower := strings.ToLower(d.raw)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return d
	}
	params := map[string]string{}
	fields := strings.Fields(d.raw)
	for _, f := range fields {
		if k, v, ok := strings.Cut(f, "="); ok {
			params[strings.ToLower(k)] = v
		}
	}
	known := slices.ContainsFunc(libpqKeys, func(k string) bool {
		_, ok := params[k]
		return ok
	})
	if known {
		d.fields, d.params = fields, params
	}
	return d
}

func (d pgDSN) keyValue() bool { return d.params != nil }

// String is the form handed to the gorm postgres driver. Key=value lists are
// collapsed to single spaces and default to sslmode=disable.
func (d pgDSN) String() string {
	if !d.keyValue() {
		return d.raw
	}
	out := strings.Join(d.fields, " ")
	if _, ok := d.params["sslmode"]; !ok {
		out += " sslmode=disable"
	}
	return out
}

// URL is the form golang-migrate needs. Lists without host, user and dbname
// cannot be expressed as a URL and are returned as String.
func (d pgDSN) URL() string {
	if !d.keyValue() {
		return d.raw
	}
	p := d.params
	if p["host"] == "" || p["user"] == "" || p["dbname"] == "" {
		return d.String()
	}
	u := &url.URL{Scheme: "postgres", Host: p["host"], Path: "/" + p["dbname"], User: url.User(p["user"])}
	if p["port"] != "" {
		u.Host += ":" + p["port"]
	}
	if p["password"] != "" {
		u.User = url.UserPassword(p["user"], p["password"])
	}
	sslmode := p["sslmode"]
	if sslmode == "" {
		sslmode = "disable"
	}
	u.RawQuery = url.Values{"sslmode": {sslmode}}.Encode()
	return u.String()
}
