package service

// ErrorCode classifies a service failure for the transport layer.
type ErrorCode int

const (
	CodeBadRequest ErrorCode = iota + 1
	CodeNotFound
	CodeForbidden
)

// Error is a caller-visible failure with a stable code and a specific
// human-readable reason. Anything else bubbling out of a service is an
// unexpected storage error and must be surfaced as a generic internal error.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func badRequest(message string) *Error {
	return &Error{Code: CodeBadRequest, Message: message}
}

func notFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

func forbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

// Reason strings. Clients and tests match on them, so they are part of the
// API surface and must stay stable.
const (
	MsgMissingRequiredFields = "Missing required fields"
	MsgInternalServerError   = "Internal server error"
	MsgForbidden             = "Forbidden"

	MsgConsultationNotFound = "Medical consultation history is not found"
	MsgConsultationExists   = "Medical consultation history already exists"
	MsgDoctorOnLeave        = "Doctor is on leave"
	MsgDoctorAlreadyBooked  = "Doctor already has a medical consultation history for this schedule"
	MsgScheduleFull         = "This schedule is full. Please select another schedule"
	MsgNoAvailableDoctors   = "No available doctors"
	MsgOnlyPendingCanceled  = "Only pending medical consultation history can be canceled"
	MsgOnlyPendingCompleted = "Only pending medical consultation history can be completed"
	MsgOnlyPendingUpdated   = "Only pending medical consultation history can be updated"

	MsgClinicNotFound         = "Clinic is not found"
	MsgScheduleNotFound       = "Clinic schedule is not found"
	MsgScheduleInactive       = "Clinic schedule is inactive"
	MsgDoctorNotFound         = "Doctor is not found"
	MsgUserNotFound           = "User is not found"
	MsgMedicalServiceNotFound = "Medical service is not found"

	MsgLeaveNotFound        = "Leave schedule is not found"
	MsgLeaveExists          = "Leave schedule is existed"
	MsgLeaveAlreadyActive   = "Leave schedule is already active"
	MsgLeaveAlreadyInactive = "Leave schedule is already inactive"

	MsgEmailInUse          = "Email is already in use"
	MsgInvalidCredentials  = "Email or password is incorrect"
	MsgUserAlreadyDoctor   = "User is already a doctor"
	MsgRequestChangeEmpty  = "Request change schedule needs at least one schedule"

	MsgHealthRecordNotFound = "Health record is not found"
)
