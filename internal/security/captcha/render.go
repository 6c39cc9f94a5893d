// Copyright (c) 2026 Vendora. All rights reserved.
// Author: dev@vendora.shop

package captcha

import (
	"bytes"
	"html/template"
)

// # Widget Rendering

// widgetV2 is the classic checkbox widget markup.
var widgetV2 = template.Must(template.New("captcha_v2").Parse(
	`<div class="g-recaptcha" data-sitekey="{{.SiteKey}}"{{if .Theme}} data-theme="{{.Theme}}"{{end}}{{if .Size}} data-size="{{.Size}}"{{end}}></div>`,
))

// widgetV3 is the invisible variant: a hidden input populated asynchronously
// by the grecaptcha script on page load.
var widgetV3 = template.Must(template.New("captcha_v3").Parse(
	`<input type="hidden" name="g-recaptcha-response" id="g-recaptcha-response">
<script src="https://www.google.com/recaptcha/api.js?render={{.SiteKey}}"></script>
<script>
grecaptcha.ready(function () {
	grecaptcha.execute('{{.SiteKey}}', {action: '{{.Action}}'}).then(function (token) {
		document.getElementById('g-recaptcha-response').value = token;
	});
});
</script>`,
))

/*
Render produces the widget markup for one form.

Description: A disabled service renders nothing. v2 emits the g-recaptcha div
with site key, theme, and size attributes; v3 emits the hidden input plus the
script that fills it. This branching is part of the service's state machine
contract, which is why the single piece of view logic lives here.

Parameters:
  - action: The v3 action label embedded in the script (ignored for v2)

Returns:
  - template.HTML: Widget markup, empty when disabled
*/
func (service *Service) Render(action string) template.HTML {
	if !service.config.Enabled {
		return ""
	}

	var buffer bytes.Buffer
	data := struct {
		SiteKey string
		Theme   string
		Size    string
		Action  string
	}{
		SiteKey: service.config.SiteKey,
		Theme:   service.config.Theme,
		Size:    service.config.Size,
		Action:  action,
	}

	widget := widgetV2
	if service.config.Version == VersionV3 {
		widget = widgetV3
	}

	if err := widget.Execute(&buffer, data); err != nil {
		return ""
	}

	return template.HTML(buffer.String())
}
