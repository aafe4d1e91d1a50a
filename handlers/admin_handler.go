package handlers

import (
	"github.com/facultystream/portal/database"
	"github.com/facultystream/portal/models"
	"github.com/facultystream/portal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AddFacilityRequest struct {
	Name     string   `json:"name" validate:"required,min=2"`
	Location string   `json:"location" validate:"required"`
	Slots    []string `json:"slots" validate:"required,min=1"`
	Capacity *int     `json:"capacity,omitempty"`
}

func AddFacility(c *fiber.Ctx) error {
	var req AddFacilityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	facility, svcErr := services.AddFacility(services.AddFacilityInput{
		Name:     req.Name,
		Location: req.Location,
		Slots:    req.Slots,
		Capacity: req.Capacity,
	})
	if svcErr != nil {
		return serviceError(c, svcErr)
	}
	return c.Status(fiber.StatusCreated).JSON(facility)
}

func RemoveFacility(c *fiber.Ctx) error {
	facilityID, err := uuid.Parse(c.Params("facilityId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid facility ID"})
	}

	if svcErr := services.RemoveFacility(facilityID); svcErr != nil {
		return serviceError(c, svcErr)
	}
	return c.JSON(fiber.Map{"message": "Facility removed."})
}

type FacilityStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active pending maintenance"`
}

func UpdateFacilityStatus(c *fiber.Ctx) error {
	facilityID, err := uuid.Parse(c.Params("facilityId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid facility ID"})
	}

	var req FacilityStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	facility, svcErr := services.UpdateFacilityStatus(facilityID, models.FacilityStatus(req.Status))
	if svcErr != nil {
		return serviceError(c, svcErr)
	}
	return c.JSON(facility)
}

func AdminGetAllAppointments(c *fiber.Ctx) error {
	appointments, err := services.GetAllAppointments()
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(appointments)
}

// AdminDeleteAppointment hard-removes an appointment; every participant
// is notified of the removal.
func AdminDeleteAppointment(c *fiber.Ctx) error {
	appointmentID, err := uuid.Parse(c.Params("appointmentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid appointment ID"})
	}

	if svcErr := services.DeleteAppointment(appointmentID); svcErr != nil {
		return serviceError(c, svcErr)
	}
	return c.JSON(fiber.Map{"message": "Appointment deleted and participants notified."})
}

func GetAllUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := database.DB.Order("created_at desc").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch users"})
	}
	return c.JSON(users)
}

type UserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=student faculty admin"`
}

// UpdateUserRole promotes or demotes an account, e.g. student ->
// faculty after verification.
func UpdateUserRole(c *fiber.Ctx) error {
	userID := c.Params("userId")

	var req UserRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	user.Role = req.Role
	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user role"})
	}
	return c.JSON(user)
}

func ToggleUserStatus(c *fiber.Ctx) error {
	userID := c.Params("userId")

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	}

	user.IsActive = !user.IsActive
	if err := database.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user status"})
	}
	return c.JSON(user)
}

func GetDashboardAnalytics(c *fiber.Ctx) error {
	var totalUsers, totalFaculty, totalAppointments, pendingAppointments, totalFacilities int64

	database.DB.Model(&models.User{}).Count(&totalUsers)
	database.DB.Model(&models.User{}).Where("role = ?", models.RoleFaculty).Count(&totalFaculty)
	database.DB.Model(&models.Appointment{}).Count(&totalAppointments)
	database.DB.Model(&models.Appointment{}).Where("status = ?", models.AppointmentPending).Count(&pendingAppointments)
	database.DB.Model(&models.Facility{}).Count(&totalFacilities)

	return c.JSON(fiber.Map{
		"total_users":          totalUsers,
		"total_faculty":        totalFaculty,
		"total_appointments":   totalAppointments,
		"pending_appointments": pendingAppointments,
		"total_facilities":     totalFacilities,
	})
}
