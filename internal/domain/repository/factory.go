package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Orders() OrderRepository
	Expenses() ExpenseRepository
	Goals() GoalRepository
	Dashboard() DashboardRepository
	Shipments() ShipmentRepository
}
