package api

import (
	"net/http"

	"github.com/davecheney/fedi/internal/to"
)

func ServersIndex(env *Env, w http.ResponseWriter, r *http.Request) error {
	return to.JSON(w, env.Dir.Names())
}
