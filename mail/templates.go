package mail

import (
	"bytes"
	"html/template"
	"strings"
)

const (
	ParticipationSubject = "Hackathon - Participation Confirmed!"
	WaitlistSubject      = "Hackathon - Waitlist Confirmation"
)

const layout = `<div style="max-width: 600px; margin: 0 auto; font-family: Arial, sans-serif; color: #333333; background-color: #ffffff; padding: 20px; border-radius: 10px;">
  <div style="padding: 20px;">
    {{template "content" .}}
    <a href="{{.ContactLink}}" style="display: inline-block; background-color: #8B3E16; color: #ffffff; text-decoration: none; padding: 12px 24px; border-radius: 5px; font-weight: bold;">Contact Us</a>
  </div>
</div>`

var participationTmpl = template.Must(template.Must(template.New("participation").Parse(layout)).New("content").Parse(`
    <h1 style="color: #8B3E16; font-size: 24px;">Participation Confirmed!</h1>
    <p>Dear participant,<br><br>We're excited to confirm your participation in the hackathon! Here are your team details:</p>
    <div><strong>Team Name:</strong> {{.TeamName}}</div>
    {{if gt (len .Members) 1}}<div><strong>Team Members:</strong>
      <ul style="list-style-type: none; padding-left: 0;">{{range .Members}}
        <li>{{.}}</li>{{end}}
      </ul>
    </div>{{end}}
    <p>If you have any questions or need to update your information, please don't hesitate to reach out to us.</p>`))

var waitlistTmpl = template.Must(template.Must(template.New("waitlist").Parse(layout)).New("content").Parse(`
    <h1 style="color: #8B3E16; font-size: 24px;">Waitlist Confirmation</h1>
    <p>Dear participant,<br><br>Thank you for registering! All available spots have been filled, but your team, <strong>{{.TeamName}}</strong>, has been added to our waitlist.</p>
    <div><strong>Current Waitlist Position:</strong> {{.Position}}</div>
    <p>If a spot becomes available, we will notify you as soon as possible.</p>`))

type participation struct {
	TeamName    string
	Members     []string
	ContactLink string
}

type waitlist struct {
	TeamName    string
	Position    int64
	ContactLink string
}

// Participation renders the confirmation sent on registration and promotion.
func Participation(teamName string, members []string, contactLink string) (string, error) {
	var b bytes.Buffer
	err := participationTmpl.ExecuteTemplate(&b, "participation", participation{teamName, members, contactLink})
	return b.String(), err
}

func Waitlist(teamName string, position int64, contactLink string) (string, error) {
	var b bytes.Buffer
	err := waitlistTmpl.ExecuteTemplate(&b, "waitlist", waitlist{teamName, position, contactLink})
	return b.String(), err
}

// ReplaceVars substitutes every {{key}} in text. Unknown placeholders stay.
func ReplaceVars(text string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
