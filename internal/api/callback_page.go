package api

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const (
	authSuccessType = "AUTH_SUCCESS"
	authErrorType   = "AUTH_ERROR"
)

// callbackPayload is the cross-window message relayed to the opener. It is
// embedded in the page as JSON-serialized data, never raw string
// interpolation, so token contents cannot break out of the script.
type callbackPayload struct {
	Type             string `json:"type"`
	AccessToken      string `json:"accessToken,omitempty"`
	MemberIdentifier string `json:"memberIdentifier,omitempty"`
	Error            string `json:"error,omitempty"`
}

var callbackTemplate = template.Must(template.New("callback").Parse(`<!DOCTYPE html>
<html>
  <body>
    <script>
      (function () {
        var payload = {{.Payload}};
        if (window.opener) {
          window.opener.postMessage(payload, window.location.origin);
        }
        window.close();
      })();
    </script>
    <p>{{.Message}}</p>
  </body>
</html>
`))

type callbackPageData struct {
	Payload template.JS
	Message string
}

// renderCallbackPage writes the HTML page that posts the authorization result
// to the opener window and closes itself.
func (h *Handler) renderCallbackPage(c *gin.Context, status int, payload callbackPayload) {
	message := "LinkedIn login successful. You may close this window."
	if payload.Type == authErrorType {
		message = "LinkedIn login failed: " + payload.Error + ". You may close this window."
	}

	// json.Marshal escapes <, > and & by default, so the payload is safe to
	// inline inside the script element.
	encoded, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("encode callback payload failed: %v", err)
		encoded = []byte(`{"type":"` + authErrorType + `","error":"internal error"}`)
		status = http.StatusInternalServerError
	}

	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if errExec := callbackTemplate.Execute(c.Writer, callbackPageData{
		Payload: template.JS(encoded),
		Message: message,
	}); errExec != nil {
		log.Errorf("render callback page failed: %v", errExec)
	}
}
