// Package services holds the app's business logic, one service per screen
// family.
//
// Services defined in this package:
//   - AuthService: registration, sign-in and session restoration
//   - ProfileService: profile reads, edits and avatar uploads
//   - CoachService: the coach directory and lesson catalogue
//   - BookingService: lesson bookings
//   - VideoService: swing video submissions for review
//   - ChatService: conversation listings
package services
