package mail

import (
	"bytes"
	"html/template"
)

var verificationTmpl = template.Must(template.New("verification").Parse(`<html>
  <body>
    <h2>Hola {{.FullName}},</h2>
    <p>Gracias por registrarte en Denuncia Loja. Para activar tu cuenta haz clic en el siguiente enlace:</p>
    <p><a href="{{.URL}}">Verificar mi cuenta</a></p>
    <p>Si no creaste esta cuenta, ignora este correo.</p>
  </body>
</html>`))

var passwordResetTmpl = template.Must(template.New("passwordReset").Parse(`<html>
  <body>
    <h2>Hola {{.FullName}},</h2>
    <p>Recibimos una solicitud para restablecer tu contraseña. El enlace expira en una hora:</p>
    <p><a href="{{.URL}}">Restablecer contraseña</a></p>
    <p>Si no solicitaste el cambio, ignora este correo.</p>
  </body>
</html>`))

type linkData struct {
	FullName string
	URL      string
}

// VerificationEmail renders the account-verification message body.
func VerificationEmail(fullName, url string) (string, error) {
	return render(verificationTmpl, linkData{FullName: fullName, URL: url})
}

// PasswordResetEmail renders the password-recovery message body.
func PasswordResetEmail(fullName, url string) (string, error) {
	return render(passwordResetTmpl, linkData{FullName: fullName, URL: url})
}

func render(tmpl *template.Template, data linkData) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
