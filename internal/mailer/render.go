package mailer

import (
	"encoding/json"
	"html/template"
	"strings"
	"time"
)

// readingData holds every field an email can render. Free, premium and
// legacy plain-string payloads all decode into this one shape; sections
// render only for the fields actually present.
type readingData struct {
	Atmosphere       string `json:"atmosphere"`
	DominantTrait    string `json:"dominant_trait"`
	HeartLine        string `json:"heart_line"`
	HeadLine         string `json:"head_line"`
	LifeLine         string `json:"life_line"`
	Mounts           string `json:"mounts"`
	FuturePrediction string `json:"future_prediction"`
	Love             string `json:"love"`
	Health           string `json:"health"`
	Work             string `json:"work"`
	Money            string `json:"money"`
	Teaser           string `json:"teaser"`
	IsPremium        bool   `json:"is_premium"`

	Date string `json:"-"`
	Year int    `json:"-"`
}

var readingTemplate = template.Must(template.New("reading").Parse(`<div style="font-family: sans-serif; color: #333; max-width: 600px; margin: 0 auto;">
  <div style="background-color: #4a044e; color: white; padding: 20px; text-align: center; border-radius: 10px 10px 0 0;">
    <h1 style="margin: 0;">&#128302; Lignes de la Main</h1>
    <p style="margin: 5px 0 0;">Votre lecture du {{.Date}}</p>
  </div>
  <div style="border: 1px solid #ddd; padding: 20px; border-radius: 0 0 10px 10px;">
    {{if .Atmosphere}}<h2>&#127756; Atmosph&egrave;re</h2><p>{{.Atmosphere}}</p>{{end}}
    {{if .DominantTrait}}<h2>&#9889; Trait Dominant</h2><p>{{.DominantTrait}}</p>{{end}}
    {{if .HeartLine}}<h2>&#10084;&#65039; Ligne de C&oelig;ur</h2><p>{{.HeartLine}}</p>{{end}}
    {{if .HeadLine}}<h2>&#129504; Ligne de T&ecirc;te</h2><p>{{.HeadLine}}</p>{{end}}
    {{if .LifeLine}}<h2>&#129516; Ligne de Vie</h2><p>{{.LifeLine}}</p>{{end}}
    {{if .Mounts}}<h2>&#9968;&#65039; Les Monts</h2><p>{{.Mounts}}</p>{{end}}
    {{if .FuturePrediction}}<h2>&#127775; Pr&eacute;dictions (12 mois)</h2><p>{{.FuturePrediction}}</p>{{end}}
    {{if .Love}}<h2>&#128150; Amour &amp; Relations</h2><p>{{.Love}}</p>{{end}}
    {{if .Health}}<h2>&#127807; Sant&eacute; &amp; Vitalit&eacute;</h2><p>{{.Health}}</p>{{end}}
    {{if .Work}}<h2>&#128188; Travail &amp; Carri&egrave;re</h2><p>{{.Work}}</p>{{end}}
    {{if .Money}}<h2>&#128176; Argent &amp; Prosp&eacute;rit&eacute;</h2><p>{{.Money}}</p>{{end}}
    {{if .Teaser}}<h2>&#128302; Aper&ccedil;u</h2><p>{{.Teaser}}</p>{{end}}
    {{if not .IsPremium}}
    <div style="background-color: #f3e8ff; border: 1px solid #d8b4fe; border-radius: 8px; padding: 20px; margin-top: 30px; text-align: center;">
      <h3 style="color: #6b21a8; margin-top: 0;">&#128275; D&eacute;bloquez votre destin&eacute;e</h3>
      <p style="color: #4a044e; margin-bottom: 20px;">
        Optez pour la version Premium pour d&eacute;couvrir :<br>
        &bull; Votre esp&eacute;rance de vie<br>
        &bull; Votre compatibilit&eacute; amoureuse<br>
        &bull; Vos opportunit&eacute;s de carri&egrave;re<br>
        &bull; Des pr&eacute;dictions d&eacute;taill&eacute;es sur 12 mois
      </p>
      <a href="https://liremamain.fr?mode=premium" style="background-color: #9333ea; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px; font-weight: bold; display: inline-block;">
        Obtenir ma lecture compl&egrave;te
      </a>
    </div>
    {{end}}
    <div style="margin-top: 30px; border-top: 1px solid #eee; padding-top: 20px; text-align: center; font-size: 12px; color: #888;">
      <p>&copy; {{.Year}} Lignes de la Main - Armurias</p>
    </div>
  </div>
</div>`))

type adminData struct {
	TierLabel string
	Date      string
}

var adminTemplate = template.Must(template.New("admin").Parse(`<div style="font-family: sans-serif; color: #333; max-width: 600px; margin: 0 auto; border: 1px solid #ddd; padding: 20px; border-radius: 10px;">
  <h1 style="color: #9d4edd; text-align: center;">Nouvelle Consultation Lignes de la Main</h1>
  <p style="font-size: 16px;">Une nouvelle lecture <strong>{{.TierLabel}}</strong> vient d'&ecirc;tre g&eacute;n&eacute;r&eacute;e sur le site !</p>
  <p style="font-size: 14px; color: #666;">Date: {{.Date}}</p>
</div>`))

// RenderReading renders a reading result into the email HTML. Result may be
// a tier-shaped JSON object or a legacy plain string; a string that fails to
// parse as JSON renders under the atmosphere heading.
func RenderReading(result json.RawMessage, date string) (string, error) {
	data := decodeResult(result)
	data.Date = date
	data.Year = time.Now().Year()

	var out strings.Builder
	if err := readingTemplate.Execute(&out, data); err != nil {
		return "", err
	}
	return out.String(), nil
}

// RenderAdminNotification renders the fixed operator-notification template
func RenderAdminNotification(tier string, now time.Time) (string, error) {
	data := adminData{
		TierLabel: tierLabel(tier),
		Date:      now.Format("02/01/2006 15:04:05"),
	}

	var out strings.Builder
	if err := adminTemplate.Execute(&out, data); err != nil {
		return "", err
	}
	return out.String(), nil
}

func tierLabel(tier string) string {
	if tier == "premium" {
		return "Premium \U0001F31F"
	}
	return "Gratuite \U0001F52E"
}

// decodeResult is the JSON-parse-with-fallback step: object payloads decode
// directly, string payloads get one more parse attempt, and anything else
// becomes an atmosphere-only reading.
func decodeResult(result json.RawMessage) readingData {
	var data readingData
	if err := json.Unmarshal(result, &data); err == nil {
		return data
	}

	var plain string
	if err := json.Unmarshal(result, &plain); err != nil {
		return readingData{Atmosphere: string(result)}
	}
	if err := json.Unmarshal([]byte(plain), &data); err == nil {
		return data
	}
	return readingData{Atmosphere: plain}
}
