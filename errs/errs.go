package errs

import "errors"

var (
	ErrValidation           = errors.New("E0001: invalid form data")
	ErrTeamNameRequired     = errors.New("E0002: team name is required")
	ErrTeamSizeInvalid      = errors.New("E0003: team size must be at least 1")
	ErrMembersRequired      = errors.New("E0004: team members are required")
	ErrDatabase             = errors.New("E0005: database error")
	ErrCryptographic        = errors.New("E0006: cryptographic failure")
	ErrJWT                  = errors.New("E0007: JWT failure")
	ErrEmailAddressFormat   = errors.New("E0008: email address format incorrect")
	ErrDuplicateEmail       = errors.New("E0009: email already registered")
	ErrTokenExpired         = errors.New("E0010: token expired")
	ErrUnauthorized         = errors.New("E0011: unauthorized")
	ErrInvalidCredentials   = errors.New("E0012: invalid username or password")
	ErrNotFound             = errors.New("E0013: not found")
	ErrInvalidID            = errors.New("E0014: invalid ID")
	ErrTeamIDRequired       = errors.New("E0015: team ID is required")
	ErrInvalidTeamID        = errors.New("E0016: invalid team ID")
	ErrSubmissionClosed     = errors.New("E0017: submission period is currently closed")
	ErrSubmissionEmpty      = errors.New("E0018: you must provide at least one URL or upload a project file")
	ErrPresentationRequired = errors.New("E0019: presentation URL is required")
	ErrFileTooLarge         = errors.New("E0020: file size exceeds 30MB limit")
	ErrUpload               = errors.New("E0021: file upload failed")
	ErrMail                 = errors.New("E0022: error sending email")
	ErrNoRecipients         = errors.New("E0023: no recipient teams specified")
	ErrSubjectRequired      = errors.New("E0024: subject and message are required")
	ErrNoTeamsFound         = errors.New("E0025: no valid teams found with the provided IDs")
	ErrMemberNotFound       = errors.New("E0026: member not found")
	ErrQueue                = errors.New("E0027: queue error")
	ErrLock                 = errors.New("E0028: registration is busy, please retry")
	ErrInvalidURL           = errors.New("E0029: invalid URL")
)
