// Package http exposes the rehearsal scheduler over a JSON HTTP API.
//
// Routes:
//
//	POST   /sessions                        sign in, returns a session token
//	DELETE /sessions/current                sign out the current session
//	POST   /users                           register an account
//	GET    /users/{id}                      read a profile ("me" resolves to the caller)
//	PUT    /users/{id}                      update a profile
//	GET    /bands                           list the caller's bands
//	POST   /bands                           create a band
//	GET    /bands/{id}                      read a band
//	PUT    /bands/{id}                      update a band
//	DELETE /bands/{id}                      delete a band
//	GET    /bands/{id}/members              list the roster, optionally as of a past instant
//	POST   /bands/{id}/members              enroll a member
//	DELETE /bands/{id}/members/{memberID}   close a membership
//	GET    /bands/{id}/songs                list the repertoire
//	POST   /bands/{id}/songs                add a song
//	GET    /songs/{id}                      read a song
//	PUT    /songs/{id}                      update a song
//	DELETE /songs/{id}                      remove a song
//	GET    /bands/{id}/setlists             list setlists
//	POST   /bands/{id}/setlists             create a setlist
//	GET    /setlists/{id}                   read a setlist
//	PUT    /setlists/{id}                   replace a setlist
//	DELETE /setlists/{id}                   delete a setlist
//	GET    /bands/{id}/rehearsals           list rehearsals in a range
//	POST   /bands/{id}/rehearsals           schedule a rehearsal
//	GET    /rehearsals/{id}                 rehearsal detail with roster standings
//	PUT    /rehearsals/{id}                 update a rehearsal
//	DELETE /rehearsals/{id}                 cancel a rehearsal
//	GET    /rehearsals/{id}/attendance      roster overlay of responses and predictions
//	PUT    /rehearsals/{id}/attendance      record an attendance response
//	GET    /bands/{id}/calendar.ics         iCalendar feed of the band's schedule
//	GET    /availability                    list declared availability windows
//	POST   /availability                    declare an availability window
//	PUT    /availability/{id}               update an availability window
//	DELETE /availability/{id}               delete an availability window
//	GET    /notifications                   list the caller's inbox
//	POST   /notifications/{id}/read         mark a notification read
//
// Session tokens are accepted as a bearer token in the Authorization
// header or through the session_token cookie. All routes other than
// sign-in and registration require a valid session.
package http
