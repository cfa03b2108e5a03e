package service

import (
	"strings"

	"github.com/gothiabil/bilgateway/models"
)

const (
	adPromptIntro = "Skapa en bilannons för följande bil:"
	adPromptOutro = "Generera en professionell och säljande annons baserat på denna information."
)

// RenderAdPrompt builds the user message for an ad. Sections are separated by one
// blank line and empty optional fields leave nothing behind, so equal input always
// renders to identical bytes.
func RenderAdPrompt(car models.CarDetails) string {
	facts := []string{
		"Märke: " + car.Brand,
		"Modell: " + car.Model,
	}
	if car.Year != "" {
		facts = append(facts, "Årsmodell: "+car.Year)
	}
	if car.Mileage != "" {
		facts = append(facts, "Miltal: "+car.Mileage+" mil")
	}
	if car.Price != "" {
		facts = append(facts, "Pris: "+car.Price+" kr")
	}

	sections := []string{adPromptIntro, strings.Join(facts, "\n")}
	if car.Equipment != "" {
		sections = append(sections, "Utrustning:\n"+car.Equipment)
	}
	if car.Condition != "" {
		sections = append(sections, "Skick:\n"+car.Condition)
	}
	sections = append(sections, adPromptOutro)

	return strings.Join(sections, "\n\n")
}
