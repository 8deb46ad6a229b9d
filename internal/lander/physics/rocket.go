package physics

// RocketActuator exposes the current rocket body to the control layer.
// Operations on a stale or missing rocket are logged and ignored.
type RocketActuator struct {
	world  *World
	handle BodyHandle
}

// RocketActuator binds an actuator to the current rocket.
func (w *World) RocketActuator() *RocketActuator {
	return &RocketActuator{world: w, handle: w.rocket}
}

// Handle returns the rocket handle the actuator is bound to.
func (r *RocketActuator) Handle() BodyHandle {
	return r.handle
}

// AngularVelocity returns the rocket's spin in rad/s, or 0 if unavailable.
func (r *RocketActuator) AngularVelocity() float64 {
	s, err := r.world.State(r.handle)
	if err != nil {
		r.world.logger.Debug("rocket unavailable", "err", err)
		return 0
	}
	return s.AngularVelocity
}

// SetAngularVelocity sets the rocket's spin in rad/s.
func (r *RocketActuator) SetAngularVelocity(omega float64) {
	r.check(r.world.SetAngularVelocity(r.handle, omega))
}

// ApplyThrust pushes the rocket along its local up axis.
func (r *RocketActuator) ApplyThrust(force float64) {
	r.check(r.world.ApplyThrust(r.handle, force))
}

// SetKinematic switches the rocket between kinematic and dynamic.
func (r *RocketActuator) SetKinematic(kinematic bool) {
	r.check(r.world.SetKinematic(r.handle, kinematic))
}

// SetHeld pins or releases the rocket at its current pose.
func (r *RocketActuator) SetHeld(held bool) {
	r.check(r.world.SetHeld(r.handle, held))
}

// ResetToLaunch restores the launch pose with zero velocity.
func (r *RocketActuator) ResetToLaunch() {
	r.check(r.world.ResetBody(r.handle, r.world.cfg.Launch, 0))
}

func (r *RocketActuator) check(err error) {
	if err != nil {
		r.world.logger.Warn("rocket command rejected", "rocket", r.handle, "err", err)
	}
}
