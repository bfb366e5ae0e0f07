package payment

import "time"

var monthNames = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// MonthName is the reference-month label the backend filters on.
func MonthName(t time.Time) string {
	return monthNames[t.Month()-1]
}

func validMonth(s string) bool {
	for _, m := range monthNames {
		if m == s {
			return true
		}
	}
	return false
}
