package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() registrationForm {
	return registrationForm{
		Name:        "Ann Example",
		Email:       "ann@example.com",
		Password:    "Passw0rd!",
		Location:    "Lisbon",
		Language:    "English",
		OnemoveLink: "https://onemove.example.com/ref/ann",
		PuprimeLink: "https://puprime.example.com/ref/ann",
	}
}

func TestValidateRegistrationAcceptsCompleteForm(t *testing.T) {
	errs := validateRegistration(validForm(), true)
	assert.Empty(t, errs)
}

func TestValidateRegistrationPassword(t *testing.T) {
	form := validForm()
	form.Password = "password"
	errs := validateRegistration(form, true)
	require.Contains(t, errs, "password")
	assert.Contains(t, errs["password"], "uppercase")

	form.Password = "Pass1!"
	errs = validateRegistration(form, true)
	require.Contains(t, errs, "password")
	assert.Contains(t, errs["password"], "at least 8 characters")
}

func TestValidateRegistrationLinks(t *testing.T) {
	form := validForm()
	form.OnemoveLink = "onemove.example.com/ref/ann"
	form.PuprimeLink = "not a url"

	errs := validateRegistration(form, true)
	assert.Contains(t, errs, "onemove_link")
	assert.Contains(t, errs, "puprime_link")
	assert.NotContains(t, errs, "password")
}

func TestValidateRegistrationTerms(t *testing.T) {
	errs := validateRegistration(validForm(), false)
	require.Contains(t, errs, "terms")
	assert.Equal(t, "You must agree to the terms of service", errs["terms"])
}
