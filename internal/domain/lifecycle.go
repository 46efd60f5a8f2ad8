package domain

type transitionKey struct {
	from AppointmentStatus
	to   AppointmentStatus
}

var transitions = map[transitionKey][]UserRole{
	{AppointmentStatusScheduled, AppointmentStatusConfirmed}: {UserRoleDoctor},
	{AppointmentStatusScheduled, AppointmentStatusCancelled}: {UserRolePatient, UserRoleDoctor},
	{AppointmentStatusConfirmed, AppointmentStatusCompleted}: {UserRoleDoctor},
	{AppointmentStatusConfirmed, AppointmentStatusNoShow}:    {UserRoleDoctor},
	// re-saving a record on a completed visit
	{AppointmentStatusCompleted, AppointmentStatusCompleted}: {UserRoleDoctor},
}

func CanTransition(from, to AppointmentStatus, role UserRole) bool {
	for _, r := range transitions[transitionKey{from, to}] {
		if r == role {
			return true
		}
	}
	return false
}

// Transition returns a copy of appointment moved to requested, or an
// *InvalidTransitionError when the table does not allow it for role.
func Transition(appointment Appointment, requested AppointmentStatus, role UserRole) (Appointment, error) {
	if !requested.IsValid() || !CanTransition(appointment.Status, requested, role) {
		return appointment, &InvalidTransitionError{
			From:  appointment.Status,
			To:    requested,
			Actor: role,
		}
	}

	appointment.Status = requested
	return appointment, nil
}

// PrepareForRecord brings an appointment to completed before a medical
// record is saved against it. A scheduled visit is confirmed first, a
// confirmed one is completed, a completed one is left as is. Cancelled and
// no-show visits are rejected.
func PrepareForRecord(appointment Appointment, role UserRole) (Appointment, error) {
	var err error

	if appointment.Status == AppointmentStatusScheduled {
		appointment, err = Transition(appointment, AppointmentStatusConfirmed, role)
		if err != nil {
			return appointment, err
		}
	}

	return Transition(appointment, AppointmentStatusCompleted, role)
}
