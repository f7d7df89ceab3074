package utils

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
)

var (
	smsUsername = os.Getenv("AT_USERNAME")
	smsAPIKey   = os.Getenv("AT_API_KEY")
)

func sendSMS(message string, recipients []string) error {
	if smsUsername == "" {
		return fmt.Errorf("africa's talking username not set")
	}

	if smsAPIKey == "" {
		return fmt.Errorf("africa's talking API key not set")
	}

	baseURL := "https://api.africastalking.com/version1/messaging"

	// Prepare the form data
	data := url.Values{}
	data.Set("username", smsUsername)
	data.Set("to", strings.Join(recipients, ","))
	data.Set("message", message)

	req, err := http.NewRequest("POST", baseURL, strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("apiKey", smsAPIKey)
	req.Header.Set("Accept", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("SMS gateway returned status %d", resp.StatusCode)
	}

	log.Printf("SMS sent to %d recipient(s)", len(recipients))
	return nil
}

// SendPickupCodeSMS delivers a pickup verification code to a passenger.
func SendPickupCodeSMS(phone, code, origin string) error {
	message := fmt.Sprintf(
		"GreenMobility: your pickup code for the ride from %s is %s. Share it with your driver at pickup. Valid for 10 minutes.",
		origin, code)
	return sendSMS(message, []string{phone})
}

// SendRideStatusSMS informs a passenger of a ride status change.
func SendRideStatusSMS(phone, origin, destination, status string) error {
	message := fmt.Sprintf(
		"GreenMobility: your ride %s to %s is now %s.",
		origin, destination, status)
	return sendSMS(message, []string{phone})
}
