// Package docs SparkUp API.
//
// Documentation of the SparkUp startup membership API.
//
//     Schemes: https
//     BasePath: /
//     Version: 1.0.0
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
//     Security:
//     - bearer
//
//    SecurityDefinitions:
//    basic:
//      type: basic
//    bearer:
//      type: apiKey
//      name: Authorization
//      in: header
//
// swagger:meta
package docs

import (
	"github.com/sparkup/sparkup-api/models"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// swagger:route POST /api/auth/token auth createToken
// Exchanges basic credentials for a bearer token.
// security:
//   basic:
// responses:
//   200: tokenResponse

// A signed bearer token and its expiry.
// swagger:response tokenResponse
type tokenResponseWrapper struct {
	// in:body
	Body models.Token
}

// swagger:route GET /api/startups/{startupId} startup startupByID
// Gets a single startup by ID. Invite links are only included for OWNERs.
// responses:
//   200: startupByIDResponse

// Shows a single startup by the given {startupId}
// swagger:response startupByIDResponse
type startupByIDResponseWrapper struct {
	// in:body
	Body models.Startup
}

// swagger:route GET /api/startups startup startups
// Lists startups, newest first.
// responses:
//   200: startupsResponse

// A page of startups.
// swagger:response startupsResponse
type startupsResponseWrapper struct {
	// in:body
	Body models.StartupsPage
}

// swagger:route GET /api/startups/{startupId}/team startup startupTeam
// Lists the team of a startup in join order.
// responses:
//   200: teamResponse

// The team of a startup.
// swagger:response teamResponse
type teamResponseWrapper struct {
	// in:body
	Body []models.TeamMembership
}

// swagger:route GET /api/users/{userId}/startups user userStartups
// Lists the startups a user belongs to.
// responses:
//   200: userStartupsResponse

// The startups mirror of a user.
// swagger:response userStartupsResponse
type userStartupsResponseWrapper struct {
	// in:body
	Body []models.UserStartup
}
