package metrics

// IncrementTaskCreated increments the task creation counter
func (m *Metrics) IncrementTaskCreated() {
	m.safeExecute("IncrementTaskCreated", func() {
		m.TasksCreatedTotal.Inc()
	})
}

// IncrementTaskCompleted increments the completed-transition counter
func (m *Metrics) IncrementTaskCompleted() {
	m.safeExecute("IncrementTaskCompleted", func() {
		m.TasksCompletedTotal.Inc()
	})
}

// IncrementNotificationCreated increments the notification counter for a type
func (m *Metrics) IncrementNotificationCreated(notificationType string) {
	m.safeExecute("IncrementNotificationCreated", func() {
		m.NotificationsCreatedTotal.WithLabelValues(notificationType).Inc()
	})
}

// RecordOverdueScan records one scan run and how many notifications it created
func (m *Metrics) RecordOverdueScan(created int) {
	m.safeExecute("RecordOverdueScan", func() {
		m.OverdueScansTotal.Inc()
		m.OverdueScanCreated.Add(float64(created))
	})
}

// SetTasksTotal sets the total tasks gauge
func (m *Metrics) SetTasksTotal(count int64) {
	m.safeExecute("SetTasksTotal", func() {
		m.TasksTotal.Set(float64(count))
	})
}

// SetProjectsTotal sets the active projects gauge
func (m *Metrics) SetProjectsTotal(count int64) {
	m.safeExecute("SetProjectsTotal", func() {
		m.ProjectsTotal.Set(float64(count))
	})
}
