// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Quenby Labs

package woproto

// Outcome classifies a command notification by its first byte.
type Outcome int

const (
	OutcomeNoResponse Outcome = iota
	OutcomeSuccess
	OutcomeNotApplicable // command acknowledged but had no effect
	OutcomePasswordRequired
	OutcomePasswordIncorrect
	OutcomeFailure
)

// Status bytes returned on the notify characteristic
const (
	statusSuccess           = 0x01
	statusNotApplicable     = 0x05
	statusPasswordRequired  = 0x07
	statusPasswordIncorrect = 0x09
)

// OutcomeOf maps a raw notification payload to an Outcome. An empty
// payload means the device never answered.
func OutcomeOf(resp []byte) Outcome {
	if len(resp) == 0 {
		return OutcomeNoResponse
	}
	switch resp[0] {
	case statusSuccess:
		return OutcomeSuccess
	case statusNotApplicable:
		return OutcomeNotApplicable
	case statusPasswordRequired:
		return OutcomePasswordRequired
	case statusPasswordIncorrect:
		return OutcomePasswordIncorrect
	default:
		return OutcomeFailure
	}
}

// String returns the outcome name for logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeNoResponse:
		return "no response"
	case OutcomeSuccess:
		return "success"
	case OutcomeNotApplicable:
		return "not applicable"
	case OutcomePasswordRequired:
		return "password required"
	case OutcomePasswordIncorrect:
		return "password incorrect"
	default:
		return "failure"
	}
}
